package main

import (
	"bytes"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
	"github.com/malcolmseyd/binderslap/imageproc"
)

func must[T any](value T, err error) T {
	if err != nil {
		log.Fatalln("fatal error:", err)
	}
	return value
}

func main() {
	var opts serverOptions
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	layout := must(imageproc.LoadOptions(opts.Layout))
	source := must(imageproc.LoadAnimation(opts.Source))
	font := must(imageproc.LoadFont(opts.FontPath, imageproc.Engine(opts.FontEngine)))
	log.Printf("loaded %s: %d frames at %dx%d", opts.Source, len(source.Frames), source.Width, source.Height)

	s := &server{
		source:         source,
		font:           font,
		pipeline:       imageproc.NewPipeline(layout),
		defaultCaption: opts.DefaultCaption,
	}

	log.Println("starting server")
	router := newRouter(s)
	if err := router.Run(net.JoinHostPort(opts.Host, opts.Port)); err != nil {
		log.Fatalln("server error:", err)
	}
}

// server holds the startup assets shared read-only by every request.
type server struct {
	source         *imageproc.Animation
	font           *imageproc.Font
	pipeline       *imageproc.Pipeline
	defaultCaption string
}

func newRouter(s *server) *gin.Engine {
	router := gin.Default()
	router.Use(requestID())
	router.Any("/image", s.handleImage)
	router.NoRoute(func(c *gin.Context) {
		c.String(404, "go away")
	})
	return router
}

func (s *server) handleImage(c *gin.Context) {
	caption, ok := c.GetQuery("t")
	if !ok {
		caption = s.defaultCaption
	}
	format, err := imageproc.ParseFormat(c.Query("format"))
	if err != nil {
		log.Printf("[%s] %v, falling back to gif", c.GetString(requestIDKey), err)
		format = imageproc.FormatGIF
	}

	log.Printf("[%s] rendering %q as %s", c.GetString(requestIDKey), caption, format)
	img, err := s.render(caption, format)
	if err != nil {
		c.AbortWithError(500, err)
		return
	}
	c.Data(200, mimetype.Detect(img).String(), img)
}

func (s *server) render(caption string, format imageproc.Format) ([]byte, error) {
	m := s.font.NewProvider()
	defer m.Close()

	frames := s.pipeline.Produce(s.source, m, caption)

	buf := bytes.NewBuffer(nil)
	encOpts := s.pipeline.Options().EncodeOptions(s.source.Width, s.source.Height)
	if err := imageproc.Encode(buf, format, frames, encOpts); err != nil {
		return nil, fmt.Errorf("can't render caption: %w", err)
	}
	return buf.Bytes(), nil
}
