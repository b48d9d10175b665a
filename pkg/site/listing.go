package site

import (
	"sort"
	"time"

	"github.com/aretw0/valog/internal/config"
	"github.com/aretw0/valog/pkg/core"
)

// Listing is the content of the home page.
type Listing struct {
	Articles []core.ListItem
	Specials []core.ListItem
}

// Assemble builds the listing over every active article, whether or not
// it was regenerated in this run. Specials keep encounter order; regular
// articles are sorted newest first, ties keeping encounter order.
func Assemble(articles []core.RawArticle, cfg *config.Config, url func(id string) string, now time.Time) Listing {
	special := SpecialTags(cfg)
	listing := Listing{
		Articles: []core.ListItem{},
		Specials: []core.ListItem{},
	}

	for _, a := range articles {
		item := listItem(a, url(a.ID))
		if a.HasAnyTag(special) {
			listing.Specials = append(listing.Specials, item)
		} else {
			listing.Articles = append(listing.Articles, item)
		}
	}

	if len(listing.Specials) == 0 && cfg.Special.View != nil {
		listing.Specials = append(listing.Specials, FallbackSpecial(*cfg.Special.View, cfg.TotalTime(), now))
	}

	sort.SliceStable(listing.Articles, func(i, j int) bool {
		return listing.Articles[i].Date > listing.Articles[j].Date
	})
	return listing
}

func listItem(a core.RawArticle, url string) core.ListItem {
	meta := core.ExtractMetadata(a.Body)
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return core.ListItem{
		ID:            a.ID,
		Title:         a.Title,
		Date:          a.Date(),
		Tags:          tags,
		Content:       core.TextContent(meta.Summary),
		URL:           url,
		VerticalTitle: core.DisplayTitle(meta, a),
	}
}

// Snapshot is the human-readable dump of the site written after each run.
type Snapshot struct {
	Blog          config.Blog      `yaml:"blog"`
	Articles      []core.ListItem  `yaml:"articles"`
	Specials      []core.ListItem  `yaml:"specials"`
	FloatingMenu  []map[string]any `yaml:"floating_menu"`
	SpecialConfig config.Special   `yaml:"special_config"`
}

// NewSnapshot pairs a listing with the configuration it was built from.
func NewSnapshot(cfg *config.Config, l Listing) Snapshot {
	menu := cfg.FloatingMenu
	if menu == nil {
		menu = []map[string]any{}
	}
	return Snapshot{
		Blog:          cfg.Blog,
		Articles:      l.Articles,
		Specials:      l.Specials,
		FloatingMenu:  menu,
		SpecialConfig: cfg.Special,
	}
}
