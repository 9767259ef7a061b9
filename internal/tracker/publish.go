package tracker

import (
	"fmt"

	"github.com/grahampellegrini/pb-tracker/internal/logger"
	"github.com/grahampellegrini/pb-tracker/internal/readme"
)

// Publication records where a run's output went
type Publication struct {
	WidgetPath    string `json:"widget_path"`
	ReportPath    string `json:"report_path,omitempty"`
	MetricsPath   string `json:"metrics_path,omitempty"`
	Readme        string `json:"readme"`
	ReadmeChanged bool   `json:"readme_changed"`
	DryRun        bool   `json:"dry_run"`
}

// Publish writes the widget backup, the optional report and metrics, then
// patches the README unless dryRun is set. The README is never partially
// written; a missing file or missing markers leave it untouched.
func (t *Tracker) Publish(res *Result, dryRun bool) (*Publication, error) {
	pub := &Publication{
		Readme: t.cfg.Output.Readme,
		DryRun: dryRun,
	}

	path, err := t.store.SaveWidget(t.cfg.Output.WidgetFile, res.Widget)
	if err != nil {
		return pub, err
	}
	pub.WidgetPath = path
	t.log.Debug("Saved widget backup", logger.Fields{"path": path})

	if name := t.cfg.Output.ReportFile; name != "" {
		path, err := t.store.SaveReport(name, res)
		if err != nil {
			return pub, err
		}
		pub.ReportPath = path
		t.log.Debug("Saved run report", logger.Fields{"path": path})
	}

	if path := t.cfg.Output.MetricsFile; path != "" {
		if err := t.metrics.WriteFile(path); err != nil {
			return pub, err
		}
		pub.MetricsPath = path
		t.log.Debug("Wrote metrics", logger.Fields{"path": path})
	}

	if dryRun {
		t.log.Info("Dry run, README not modified", logger.Fields{"readme": pub.Readme})
		return pub, nil
	}

	changed, err := readme.Patch(t.cfg.Output.Readme, res.Widget)
	if err != nil {
		return pub, fmt.Errorf("updating README: %w", err)
	}
	pub.ReadmeChanged = changed

	t.log.Info("README processed", logger.Fields{
		"readme":  pub.Readme,
		"changed": changed,
	})
	return pub, nil
}
