package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path"
	"sync"

	"github.com/jessevdk/go-flags"
	"github.com/malcolmseyd/binderslap/imageproc"
)

type CLIOptions struct {
	Source     string `long:"source" required:"true" description:"GIF or animated WebP to caption"`
	OutDir     string `long:"outdir" required:"true"`
	MaxWorkers int    `long:"maxworkers" default:"4"`
	Format     string `long:"format" default:"gif" choice:"gif" choice:"webp"`
	Font       string `long:"font" description:"TrueType font file (embedded Go Regular when empty)"`
	FontEngine string `long:"font-engine" default:"opentype" choice:"opentype" choice:"freetype"`
	Layout     string `long:"layout" description:"YAML layout file"`

	Args struct {
		Captions []string `positional-arg-name:"caption" required:"1"`
	} `positional-args:"yes"`
}

type job struct {
	n       int
	caption string
}

func main() {
	var opts CLIOptions
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	layout, err := imageproc.LoadOptions(opts.Layout)
	if err != nil {
		log.Fatalln("failed to load layout:", err)
	}
	format, err := imageproc.ParseFormat(opts.Format)
	if err != nil {
		log.Fatalln(err)
	}
	source, err := imageproc.LoadAnimation(opts.Source)
	if err != nil {
		log.Fatalln("failed to load source:", err)
	}
	font, err := imageproc.LoadFont(opts.Font, imageproc.Engine(opts.FontEngine))
	if err != nil {
		log.Fatalln("failed to load font:", err)
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		log.Fatalln("failed to create output dir:", err)
	}

	r := &renderer{
		source:   source,
		font:     font,
		pipeline: imageproc.NewPipeline(layout),
		format:   format,
		outDir:   opts.OutDir,
		total:    len(opts.Args.Captions),
	}

	jobs := make(chan job, opts.MaxWorkers)
	wg := sync.WaitGroup{}
	wg.Add(opts.MaxWorkers)
	for i := 0; i < opts.MaxWorkers; i++ {
		go r.worker(jobs, &wg)
	}

	for i, caption := range opts.Args.Captions {
		jobs <- job{n: i + 1, caption: caption}
	}
	close(jobs)
	wg.Wait()

	if r.failed > 0 {
		log.Fatalf("%d of %d captions failed", r.failed, r.total)
	}
}

type renderer struct {
	source   *imageproc.Animation
	font     *imageproc.Font
	pipeline *imageproc.Pipeline
	format   imageproc.Format
	outDir   string
	total    int

	mu     sync.Mutex
	failed int
}

func (r *renderer) worker(jobs chan job, wg *sync.WaitGroup) {
	defer wg.Done()

	// faces are per goroutine, the source and font are shared
	m := r.font.NewProvider()
	defer m.Close()

	for j := range jobs {
		outPathName := path.Join(r.outDir, fmt.Sprintf("caption-%03d.%s", j.n, r.format))
		if err := r.render(m, j.caption, outPathName); err != nil {
			log.Printf("error rendering %q: %v\n", j.caption, err)
			r.mu.Lock()
			r.failed++
			r.mu.Unlock()
			continue
		}
		log.Printf("wrote %s (%d of %d)\n", outPathName, j.n, r.total)
	}
}

func (r *renderer) render(m imageproc.MetricsProvider, caption, outPathName string) error {
	frames := r.pipeline.Produce(r.source, m, caption)

	buf := bytes.NewBuffer(nil)
	encOpts := r.pipeline.Options().EncodeOptions(r.source.Width, r.source.Height)
	if err := imageproc.Encode(buf, r.format, frames, encOpts); err != nil {
		return err
	}
	if err := os.WriteFile(outPathName, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", outPathName, err)
	}
	return nil
}
