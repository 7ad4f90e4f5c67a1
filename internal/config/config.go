// Package config loads the linkhub site file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gabrielmiguelok/linkhub/internal/catalog"
)

const (
	// DefaultPath is the site file looked up when none is given.
	DefaultPath = "linkhub.toml"

	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultPublicDir holds static assets copied into exports.
	DefaultPublicDir = "public"

	// DefaultFeedProxy is the RSS-to-JSON service used for the blog section.
	DefaultFeedProxy = "https://api.rss2json.com/v1/api.json"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid site config")

// Site is the complete site file.
type Site struct {
	Metadata    Metadata     `toml:"metadata"`
	Analytics   Analytics    `toml:"analytics"`
	Branding    Branding     `toml:"branding"`
	Features    Features     `toml:"features"`
	Theme       Theme        `toml:"theme"`
	Nav         []NavItem    `toml:"nav"`
	SocialLinks []SocialLink `toml:"social_links"`
	Resources   []Resource   `toml:"resources"`
	Tools       []Tool       `toml:"tools"`
	Blog        Blog         `toml:"blog"`
	Build       Build        `toml:"build"`
}

type Metadata struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Favicon     string `toml:"favicon"`
}

type Analytics struct {
	// GoogleAnalyticsID enables the gtag snippet when set.
	GoogleAnalyticsID string `toml:"google_analytics_id"`
}

type Branding struct {
	// Logo is hidden when empty.
	Logo          string `toml:"logo"`
	LogoAlt       string `toml:"logo_alt"`
	WebsiteURL    string `toml:"website_url"`
	Tagline       string `toml:"tagline"`
	Email         string `toml:"email"`
	CopyrightYear string `toml:"copyright_year"`
}

type Features struct {
	CRTEffect     bool    `toml:"crt_effect"`
	CRTTint       string  `toml:"crt_tint"`
	CRTBrightness float64 `toml:"crt_brightness"`
	// SubscribeModal gates resources behind the subscription prompt.
	SubscribeModal bool `toml:"subscribe_modal"`
	// DefaultTool is the id of the tool selected on first render. The first
	// tool is selected when empty.
	DefaultTool string `toml:"default_tool,omitempty"`
}

type Theme struct {
	AccentColor string `toml:"accent_color"`
	DarkBg      string `toml:"dark_bg"`
	LightBg     string `toml:"light_bg"`
}

type NavItem struct {
	ID    string `toml:"id"`
	Label string `toml:"label"`
	Href  string `toml:"href"`
}

type SocialLink struct {
	ID       string `toml:"id"`
	Platform string `toml:"platform"`
	Title    string `toml:"title"`
	Handle   string `toml:"handle"`
	URL      string `toml:"url"`
	Icon     string `toml:"icon"`
}

type Resource struct {
	ID           string `toml:"id"`
	Title        string `toml:"title"`
	Description  string `toml:"description"`
	Badge        string `toml:"badge"`
	Link         string `toml:"link"`
	ButtonLabel  string `toml:"button_label"`
	MediaDefault string `toml:"media_default"`
	MediaType    string `toml:"media_type"`
	ImageHover   string `toml:"image_hover"`
}

type Tag struct {
	Label string `toml:"label"`
	Bg    string `toml:"bg"`
	Text  string `toml:"text"`
}

type Tool struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Icon        string `toml:"icon"`
	URL         string `toml:"url"`
	Description string `toml:"description"`
	Tags        []Tag  `toml:"tags"`
	SmallIcon   bool   `toml:"small_icon,omitempty"`
}

type Blog struct {
	Enabled bool   `toml:"enabled"`
	FeedURL string `toml:"feed_url"`
	Title   string `toml:"title"`
	// SubscribeURL is the newsletter provider base URL. The subscription
	// form is hidden when empty.
	SubscribeURL string `toml:"subscribe_url"`
	// FeedProxy overrides the RSS-to-JSON service.
	FeedProxy string `toml:"feed_proxy,omitempty"`
	// FeedAPI is a served /api/feed endpoint that exported pages refresh
	// their blog section from. FeedProxy is queried directly when empty.
	FeedAPI string `toml:"feed_api,omitempty"`
}

type Build struct {
	// BasePath prefixes asset URLs when the site is hosted under a sub-path.
	BasePath  string `toml:"base_path"`
	PublicDir string `toml:"public_dir"`
	SiteURL   string `toml:"site_url"`
}

// Load reads and validates the site file at path.
func Load(path string) (*Site, error) {
	site := &Site{}
	md, err := toml.DecodeFile(path, site)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	site.normalize(filepath.Dir(path))
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return site, nil
}

// Write encodes the site file to path, refusing to overwrite unless force is set.
func Write(path string, site *Site, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(site)
}

// normalize fills presentation defaults left empty by the site file.
func (s *Site) normalize(dir string) {
	def := Default()
	if s.Theme.AccentColor == "" {
		s.Theme.AccentColor = def.Theme.AccentColor
	}
	if s.Theme.DarkBg == "" {
		s.Theme.DarkBg = def.Theme.DarkBg
	}
	if s.Theme.LightBg == "" {
		s.Theme.LightBg = def.Theme.LightBg
	}
	if s.Features.CRTTint == "" {
		s.Features.CRTTint = def.Features.CRTTint
	}
	if s.Blog.Title == "" {
		s.Blog.Title = def.Blog.Title
	}
	s.Build.BasePath = NormalizeBasePath(s.Build.BasePath)
	if s.Build.PublicDir == "" {
		s.Build.PublicDir = DefaultPublicDir
	}
	if !filepath.IsAbs(s.Build.PublicDir) {
		s.Build.PublicDir = filepath.Join(dir, s.Build.PublicDir)
	}
	if s.Blog.FeedProxy == "" {
		s.Blog.FeedProxy = DefaultFeedProxy
	}
	s.Blog.SubscribeURL = strings.TrimRight(s.Blog.SubscribeURL, "/")
}

// NormalizeBasePath returns "" or a path with a leading and no trailing slash.
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// GatingDisabled reports whether resources open without the prompt.
func (s *Site) GatingDisabled() bool {
	return !s.Features.SubscribeModal
}

// Catalog converts the configured resources.
func (s *Site) Catalog() *catalog.Catalog {
	resources := make([]catalog.Resource, len(s.Resources))
	for i, r := range s.Resources {
		mt := catalog.MediaType(r.MediaType)
		if mt == "" {
			mt = catalog.MediaImage
		}
		resources[i] = catalog.Resource{
			ID:           r.ID,
			Title:        r.Title,
			Description:  r.Description,
			Link:         r.Link,
			Status:       catalog.Status(r.Badge),
			ButtonLabel:  r.ButtonLabel,
			MediaDefault: r.MediaDefault,
			MediaType:    mt,
			ImageHover:   r.ImageHover,
		}
	}
	return catalog.New(resources)
}

// DefaultToolIndex returns the position of the tool selected on first
// render.
func (s *Site) DefaultToolIndex() int {
	for i, t := range s.Tools {
		if t.ID == s.Features.DefaultTool {
			return i
		}
	}
	return 0
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate reports every problem in the site file at once.
func (s *Site) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if strings.TrimSpace(s.Metadata.Title) == "" {
		add("metadata.title is required")
	}
	for _, c := range []struct{ name, value string }{
		{"theme.accent_color", s.Theme.AccentColor},
		{"theme.dark_bg", s.Theme.DarkBg},
		{"theme.light_bg", s.Theme.LightBg},
	} {
		if !hexColor.MatchString(c.value) {
			add("%s %q is not a hex color", c.name, c.value)
		}
	}
	if s.Features.CRTEffect {
		if !hexColor.MatchString(s.Features.CRTTint) {
			add("features.crt_tint %q is not a hex color", s.Features.CRTTint)
		}
		if s.Features.CRTBrightness < 0 || s.Features.CRTBrightness > 1 {
			add("features.crt_brightness %v must be between 0 and 1", s.Features.CRTBrightness)
		}
	}

	seen := make(map[string]bool, len(s.Resources))
	for i, r := range s.Resources {
		switch {
		case r.ID == "":
			add("resources[%d].id is required", i)
		case seen[r.ID]:
			add("resources[%d].id %q is duplicated", i, r.ID)
		}
		seen[r.ID] = true
		status := catalog.Status(r.Badge)
		if !status.IsValid() {
			add("resources[%d].badge %q must be live or coming-soon", i, r.Badge)
		}
		if status == catalog.StatusLive && !isHTTPURL(r.Link) {
			add("resources[%d].link %q must be an http(s) URL for live resources", i, r.Link)
		}
		if r.MediaType != "" && r.MediaType != string(catalog.MediaImage) && r.MediaType != string(catalog.MediaVideo) {
			add("resources[%d].media_type %q must be image or video", i, r.MediaType)
		}
	}

	for i, l := range s.SocialLinks {
		if !isHTTPURL(l.URL) {
			add("social_links[%d].url %q must be an http(s) URL", i, l.URL)
		}
	}
	defaultTool := s.Features.DefaultTool == ""
	for i, t := range s.Tools {
		if !isHTTPURL(t.URL) {
			add("tools[%d].url %q must be an http(s) URL", i, t.URL)
		}
		defaultTool = defaultTool || t.ID == s.Features.DefaultTool
	}
	if !defaultTool && len(s.Tools) > 0 {
		add("features.default_tool %q does not name a tool", s.Features.DefaultTool)
	}
	if s.Blog.FeedAPI != "" && !isHTTPURL(s.Blog.FeedAPI) {
		add("blog.feed_api %q must be an http(s) URL", s.Blog.FeedAPI)
	}

	if s.Blog.Enabled && !isHTTPURL(s.Blog.FeedURL) {
		add("blog.feed_url %q must be an http(s) URL when the blog is enabled", s.Blog.FeedURL)
	}
	if s.Blog.SubscribeURL != "" && !isHTTPURL(s.Blog.SubscribeURL) {
		add("blog.subscribe_url %q must be an http(s) URL", s.Blog.SubscribeURL)
	}
	if s.Features.SubscribeModal && s.Blog.SubscribeURL == "" {
		add("features.subscribe_modal requires blog.subscribe_url")
	}
	if s.Build.SiteURL != "" && !isHTTPURL(s.Build.SiteURL) {
		add("build.site_url %q must be an http(s) URL", s.Build.SiteURL)
	}

	return errors.Join(errs...)
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
