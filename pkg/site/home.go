package site

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/aretw0/valog/internal/config"
)

// HomeContext is the data of the home template. JSON payloads are passed
// as template.JS so they land verbatim inside the page script.
type HomeContext map[string]any

// NewHomeContext builds the home template data from the configuration and
// the listing.
func NewHomeContext(cfg *config.Config, l Listing) (HomeContext, error) {
	menu := cfg.FloatingMenu
	if menu == nil {
		menu = []map[string]any{}
	}
	specialTags := cfg.SpecialTags
	if specialTags == nil {
		specialTags = []string{}
	}

	ctx := HomeContext{
		"BLOG_NAME":        orDefault(cfg.Blog.Name, "VaLog"),
		"SPECIAL_NAME":     orDefault(cfg.Blog.SName, "Special"),
		"BLOG_DESCRIPTION": cfg.Blog.Description,
		"BLOG_AVATAR":      cfg.Blog.Avatar,
		"BLOG_FAVICON":     cfg.Blog.Favicon,
		"THEME_MODE":       orDefault(cfg.Theme.Mode, "dark"),
		"PRIMARY_COLOR":    orDefault(cfg.Theme.PrimaryColor, "#e74c3c"),
		"TOTAL_TIME":       cfg.TotalTime(),
	}

	payloads := map[string]any{
		"ARTICLES_JSON":   l.Articles,
		"SPECIALS_JSON":   l.Specials,
		"MENU_ITEMS_JSON": menu,
		"SPECIAL_TAGS":    specialTags,
	}
	for key, v := range payloads {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		ctx[key] = template.JS(data)
	}
	return ctx, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
