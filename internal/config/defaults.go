package config

var (
	commonTag = Tag{Bg: "#f5f5f5", Text: "#414651"}

	categoryColors = map[string]string{
		"Productivity": "#5326ab",
		"Design":       "#e64400",
		"Coding":       "#007acc",
		"Content":      "#158f4a",
	}
)

func tags(category, label string) []Tag {
	secondary := commonTag
	secondary.Label = label
	return []Tag{
		{Label: category, Bg: categoryColors[category], Text: "#fff"},
		secondary,
	}
}

// Default returns the placeholder site written by `linkhub init`.
func Default() *Site {
	return &Site{
		Metadata: Metadata{
			Title:       "Your Name | Links",
			Description: "All my important links in one place",
			Favicon:     "/favicon.png",
		},
		Branding: Branding{
			Logo:          "/images/logo-placeholder.svg",
			LogoAlt:       "Your Brand",
			WebsiteURL:    "https://example.com",
			Tagline:       "Your tagline goes here.\nBring bold ideas to life.",
			Email:         "hello@example.com",
			CopyrightYear: "2024",
		},
		Features: Features{
			CRTEffect:      true,
			CRTTint:        "#FFFAEE",
			CRTBrightness:  0.08,
			SubscribeModal: false,
			DefaultTool:    "obsidian",
		},
		Theme: Theme{
			AccentColor: "#3b82f6",
			DarkBg:      "#191919",
			LightBg:     "#FFFAEE",
		},
		Nav: []NavItem{
			{ID: "about", Label: "About", Href: "#"},
			{ID: "projects", Label: "Projects", Href: "#"},
			{ID: "contact", Label: "Contact", Href: "#"},
		},
		SocialLinks: []SocialLink{
			{ID: "figma", Platform: "figma", Title: "Figma", Handle: "@yourhandle", URL: "https://figma.com", Icon: "figma"},
			{ID: "github", Platform: "github", Title: "Github", Handle: "@yourhandle", URL: "https://github.com", Icon: "github"},
			{ID: "substack", Platform: "substack", Title: "Substack", Handle: "@yourhandle", URL: "https://substack.com", Icon: "substack"},
			{ID: "instagram", Platform: "instagram", Title: "Insta", Handle: "@yourhandle", URL: "https://instagram.com", Icon: "instagram"},
			{ID: "medium", Platform: "medium", Title: "Medium", Handle: "@yourhandle", URL: "https://medium.com", Icon: "medium"},
		},
		Resources: []Resource{
			{
				ID:           "project-1",
				Title:        "Your First Project",
				Description:  "A brief description of your first project or resource. Keep it concise and compelling.",
				Badge:        "live",
				Link:         "https://example.com/project-1",
				ButtonLabel:  "View Project",
				MediaDefault: "/images/placeholder-resource-01.svg",
				MediaType:    "image",
				ImageHover:   "/images/placeholder-resource-02.svg",
			},
			{
				ID:           "project-2",
				Title:        "Your Second Project",
				Description:  "Another amazing project you want to showcase. Add a compelling description here.",
				Badge:        "live",
				Link:         "https://example.com/project-2",
				ButtonLabel:  "Learn More",
				MediaDefault: "/images/placeholder-resource-02.svg",
				MediaType:    "image",
				ImageHover:   "/images/placeholder-resource-01.svg",
			},
			{
				ID:           "project-3",
				Title:        "Coming Soon Project",
				Description:  "Something exciting you're working on. Build anticipation with a teaser description.",
				Badge:        "coming-soon",
				Link:         "#",
				ButtonLabel:  "Stay Tuned",
				MediaDefault: "/images/placeholder-resource-01.svg",
				MediaType:    "image",
				ImageHover:   "/images/placeholder-resource-02.svg",
			},
		},
		Tools: []Tool{
			{ID: "claude", Name: "Claude", Icon: "/icons/tech/claude.png", URL: "https://claude.ai", Description: "Go-to AI assistant for coding, writing, and research.", Tags: tags("Productivity", "AI")},
			{ID: "cursor", Name: "Cursor", Icon: "/icons/tech/cursor.png", URL: "https://cursor.com", Description: "Primary IDE with AI-powered code completion.", Tags: tags("Coding", "IDE")},
			{ID: "github", Name: "GitHub", Icon: "/icons/tech/github.png", URL: "https://github.com", Description: "Version control and collaboration platform.", Tags: tags("Coding", "Git")},
			{ID: "figma", Name: "Figma", Icon: "/icons/tech/figma.png", URL: "https://figma.com", Description: "Design system canvas for UI/UX work.", Tags: tags("Design", "UI")},
			{ID: "framer", Name: "Framer", Icon: "/icons/tech/framer.png", URL: "https://framer.com", Description: "Interactive websites without code.", Tags: tags("Design", "No-Code")},
			{ID: "notion", Name: "Notion", Icon: "/icons/tech/notion.png", URL: "https://notion.so", Description: "All-in-one workspace for notes and docs.", Tags: tags("Productivity", "Notes")},
			{ID: "obsidian", Name: "Obsidian", Icon: "/icons/tech/obsidian.png", URL: "https://obsidian.md", Description: "Markdown viewer and knowledge base.", Tags: tags("Productivity", "Markdown")},
			{ID: "premiere", Name: "Premiere Pro", Icon: "/icons/tech/premiere.png", URL: "https://adobe.com/products/premiere", Description: "Professional video editing software.", Tags: tags("Content", "Video")},
		},
		Blog: Blog{
			Enabled:      true,
			FeedURL:      "https://example.substack.com/feed",
			Title:        "Recent Blogs",
			SubscribeURL: "https://example.substack.com",
		},
		Build: Build{
			PublicDir: DefaultPublicDir,
		},
	}
}
