// Package export writes the hub as a static site and publishes it to
// S3-compatible storage.
package export

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabrielmiguelok/linkhub/client"
	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/feed"
	"github.com/gabrielmiguelok/linkhub/internal/website/components"
	"github.com/gabrielmiguelok/linkhub/internal/website/landing"
	"github.com/gabrielmiguelok/linkhub/pkg/logging"
)

// DefaultOutDir is where exports are written when no directory is given.
const DefaultOutDir = "dist"

// ErrOutDirNotEmpty is returned when the output directory holds files and
// cleaning was not requested.
var ErrOutDirNotEmpty = errors.New("export: output directory is not empty")

// Options configures a static export.
type Options struct {
	Site   *config.Site
	OutDir string
	// Posts are baked into the blog section.
	Posts []feed.Post
	// Clean removes the previous contents of OutDir.
	Clean  bool
	Logger logging.Logger
}

// Manifest lists the files written, relative to the output directory and
// slash-separated.
type Manifest struct {
	Dir   string
	Files []string
}

// Write renders the hub in static mode and writes it with its scripts, the
// public assets and the host marker files. A sitemap is added when the
// public site URL is known.
func Write(opts Options) (*Manifest, error) {
	if opts.Site == nil {
		return nil, fmt.Errorf("export: %w: nil site", config.ErrInvalidConfig)
	}
	if opts.OutDir == "" {
		opts.OutDir = DefaultOutDir
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger{}
	}

	if err := prepareDir(opts.OutDir, opts.Clean); err != nil {
		return nil, err
	}

	w := &writer{dir: opts.OutDir}

	if err := w.copyPublic(opts.Site.Build.PublicDir); err != nil {
		return nil, err
	}

	page := landing.RenderHub(landing.Options{
		Site:  opts.Site,
		Mode:  components.Static,
		Posts: opts.Posts,
	})
	w.file("index.html", []byte(page))

	for _, script := range landing.Scripts(opts.Site, components.Static) {
		data, err := client.GetFile(path.Base(script))
		if err != nil {
			return nil, fmt.Errorf("export: script %s: %w", script, err)
		}
		w.file(strings.TrimPrefix(script, "/"), data)
	}

	// GitHub Pages would otherwise skip the underscore directory.
	w.file(".nojekyll", nil)
	siteURL := opts.Site.Build.SiteURL
	w.file("robots.txt", []byte(robots(siteURL)))
	if siteURL != "" {
		sitemap, err := renderSitemap(siteURL)
		if err != nil {
			return nil, err
		}
		w.file("sitemap.xml", sitemap)
	}

	if w.err != nil {
		return nil, w.err
	}

	sort.Strings(w.files)
	opts.Logger.Info("site exported",
		logging.String("dir", opts.OutDir),
		logging.Int("files", len(w.files)),
	)
	return &Manifest{Dir: opts.OutDir, Files: w.files}, nil
}

func prepareDir(dir string, clean bool) error {
	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("export: read %s: %w", dir, err)
	case len(entries) > 0 && !clean:
		return fmt.Errorf("%w: %s", ErrOutDirNotEmpty, dir)
	case len(entries) > 0:
		for _, e := range entries {
			if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
				return fmt.Errorf("export: clean %s: %w", dir, err)
			}
		}
	}
	return os.MkdirAll(dir, 0o755)
}

func robots(siteURL string) string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\nAllow: /\n")
	if siteURL != "" {
		sb.WriteString("\nSitemap: " + strings.TrimRight(siteURL, "/") + "/sitemap.xml\n")
	}
	return sb.String()
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// renderSitemap lists the hub page, the only document in the export.
func renderSitemap(siteURL string) ([]byte, error) {
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []sitemapURL{{Loc: strings.TrimRight(siteURL, "/") + "/"}},
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// writer records the first error and skips every later write.
type writer struct {
	dir   string
	files []string
	err   error
}

func (w *writer) file(rel string, data []byte) {
	if w.err != nil {
		return
	}
	path := filepath.Join(w.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		w.err = fmt.Errorf("export: %w", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		w.err = fmt.Errorf("export: %w", err)
		return
	}
	w.files = append(w.files, rel)
}

// copyPublic mirrors the public directory into the output. A missing
// directory is not an error.
func (w *writer) copyPublic(src string) error {
	if src == "" {
		return nil
	}
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != src && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if err := copyFile(path, filepath.Join(w.dir, rel)); err != nil {
			return fmt.Errorf("export: copy %s: %w", rel, err)
		}
		w.files = append(w.files, filepath.ToSlash(rel))
		return nil
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
