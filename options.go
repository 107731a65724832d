package main

// Options is option of the command.
type Options struct {
	Output        string `short:"o" long:"output" description:"Output file path, or output directory when the input is a directory"`
	Model         string `short:"m" long:"model" default:"edsr-base" description:"Short model identifier"`
	Scale         int    `short:"s" long:"scale" default:"2" choice:"2" choice:"3" choice:"4" description:"Upscaling factor passed to the model"`
	UpscaleSuffix string `short:"u" long:"upscale-suffix" default:"-upscaled" description:"Suffix appended to filenames of upscaled outputs"`

	Args struct {
		Input string `positional-arg-name:"input" description:"Input image path or directory"`
	} `positional-args:"yes" required:"yes"`
}
