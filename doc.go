// Package valog is the composition root of the VaLog static blog generator.
//
// VaLog turns the open issues of a GitHub repository and/or a directory of
// text files into one HTML page per article plus a home page. Builds are
// incremental: a JSON cache records the modification signal each article
// was last rendered at, so a run only regenerates new or changed articles,
// deletes the pages of removed ones and repairs pages that went missing.
//
// Usage:
//
//	cfg, err := valog.LoadConfig("config.yml", "")
//	report, err := valog.Build(ctx, cfg, valog.WithLogger(logger))
//	fmt.Println(report.Regenerated)
package valog
