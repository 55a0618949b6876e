package main

// serverOptions is read from flags, falling back to the environment.
type serverOptions struct {
	Host   string `long:"host" env:"LISTEN_HOST" description:"address to listen on"`
	Port   string `long:"port" env:"PORT" default:"9000" description:"port to listen on"`
	Source string `long:"source" env:"SOURCE_ANIMATION" default:"binderslap_opt.gif" description:"GIF or animated WebP to caption"`

	FontPath   string `long:"font" env:"FONT_PATH" description:"TrueType font file (embedded Go Regular when empty)"`
	FontEngine string `long:"font-engine" env:"FONT_ENGINE" default:"opentype" choice:"opentype" choice:"freetype"`

	Layout         string `long:"layout" env:"LAYOUT_CONFIG" description:"YAML file overriding caption layout"`
	DefaultCaption string `long:"default-caption" env:"DEFAULT_CAPTION" default:"Hello" description:"caption used when t is missing"`
}
