package site

import (
	"fmt"
	"time"

	"github.com/aretw0/valog/internal/config"
	"github.com/aretw0/valog/pkg/core"
)

const (
	startDateLayout    = "2006.01.02"
	daysPlaceholder    = "运行天数: 计算中..."
	fallbackSpecialID  = "0"
	fallbackSpecialTag = "Special"
)

// SpecialTags returns the tags that put an article on the special list.
func SpecialTags(cfg *config.Config) map[string]bool {
	tags := map[string]bool{"special": true}
	if cfg.TopIsSpecial() {
		tags["top"] = true
	}
	for _, t := range cfg.SpecialTags {
		tags[t] = true
	}
	return tags
}

// DaysRunning formats the whole days elapsed since start ("2006.01.02").
// An unparsable start yields a placeholder instead of an error.
func DaysRunning(start string, now time.Time) string {
	t, err := time.ParseInLocation(startDateLayout, start, now.Location())
	if err != nil {
		return daysPlaceholder
	}
	// Calendar dates in UTC so DST shifts never eat a day.
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	since := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(since).Hours() / 24)
	return fmt.Sprintf("运行天数: %d 天", days)
}

// FallbackSpecial builds the synthetic entry shown when no article is special.
func FallbackSpecial(view config.SpecialView, start string, now time.Time) core.ListItem {
	return core.ListItem{
		ID:   fallbackSpecialID,
		Tags: []string{},
		Content: core.LinesContent(
			view.RFInformation,
			view.Copyright,
			DaysRunning(start, now),
			view.Others,
		),
		VerticalTitle: fallbackSpecialTag,
	}
}
