package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielmiguelok/linkhub/internal/catalog"
)

func TestDefault_Validates(t *testing.T) {
	require.NoError(t, Default().Validate())
	assert.True(t, Default().GatingDisabled())
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Write(path, Default(), false))

	site, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Metadata, site.Metadata)
	assert.Equal(t, def.Resources, site.Resources)
	assert.Equal(t, def.Tools, site.Tools)
	assert.Equal(t, DefaultFeedProxy, site.Blog.FeedProxy)
	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultPublicDir), site.Build.PublicDir)
}

func TestWrite_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Write(path, Default(), false))

	err := Write(path, Default(), false)
	assert.ErrorIs(t, err, os.ErrExist)
	assert.NoError(t, Write(path, Default(), true))
}

func TestLoad_AppliesDefaultsAndBasePath(t *testing.T) {
	path := writeFile(t, `
[metadata]
title = "Ada | Links"

[features]
subscribe_modal = true

[blog]
subscribe_url = "https://ada.substack.com/"

[build]
base_path = "links/"

[[resources]]
id = "portfolio"
title = "Portfolio"
badge = "live"
link = "https://ada.dev/portfolio"
`)

	site, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/links", site.Build.BasePath)
	assert.Equal(t, "#3b82f6", site.Theme.AccentColor)
	assert.Equal(t, "Recent Blogs", site.Blog.Title)
	assert.Equal(t, "https://ada.substack.com", site.Blog.SubscribeURL)
	assert.False(t, site.GatingDisabled())

	c := site.Catalog()
	r, err := c.Find("portfolio")
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusLive, r.Status)
	assert.Equal(t, catalog.MediaImage, r.MediaType)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, `
[metadata]
title = "x"
titel = "typo"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "metadata.titel")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	site := Default()
	site.Metadata.Title = " "
	site.Theme.AccentColor = "blue"
	site.Features.SubscribeModal = true
	site.Blog.SubscribeURL = ""
	site.Resources = append(site.Resources, Resource{ID: "project-1", Badge: "draft"})
	site.Resources[0].Link = "ftp://example.com"

	err := site.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	msg := err.Error()
	for _, want := range []string{
		"metadata.title is required",
		`theme.accent_color "blue"`,
		"requires blog.subscribe_url",
		`resources[3].id "project-1" is duplicated`,
		`resources[3].badge "draft"`,
		`resources[0].link "ftp://example.com"`,
	} {
		assert.Contains(t, msg, want)
	}
}

func TestDefaultToolIndex(t *testing.T) {
	site := Default()
	assert.Equal(t, "obsidian", site.Tools[site.DefaultToolIndex()].ID)

	site.Features.DefaultTool = ""
	assert.Zero(t, site.DefaultToolIndex())
}

func TestValidate_DefaultToolAndFeedAPI(t *testing.T) {
	site := Default()
	site.Features.DefaultTool = "vim"
	site.Blog.FeedAPI = "not a url"

	err := site.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `features.default_tool "vim" does not name a tool`)
	assert.Contains(t, err.Error(), `blog.feed_api "not a url"`)

	site.Tools = nil
	site.Blog.FeedAPI = "https://links.example.com/api/feed"
	assert.NoError(t, site.Validate())
}

func TestValidate_ComingSoonMayUsePlaceholderLink(t *testing.T) {
	site := Default()
	site.Resources = []Resource{{ID: "soon", Badge: "coming-soon", Link: "#"}}
	assert.NoError(t, site.Validate())
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"/":       "",
		"links":   "/links",
		"/links/": "/links",
		" a/b ":   "/a/b",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeBasePath(in), "input %q", in)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
