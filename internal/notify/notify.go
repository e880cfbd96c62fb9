// Package notify raises desktop notifications for engagement callouts.
package notify

import (
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"
	"github.com/huangsam/questlog/schema"
)

// AppName is shown as the notification source.
const AppName = "questlog"

// alertFunc sends the notification. Tests replace it.
var alertFunc = beeep.Alert

// maxLabels caps how many period labels the message lists.
const maxLabels = 3

// Burnout raises one alert summarizing the burnout callouts, if any.
// It reports whether an alert was sent.
func Burnout(callouts []schema.Callout) (bool, error) {
	var labels []string
	for _, c := range callouts {
		if c.Type == schema.BurnoutCallout {
			labels = append(labels, c.Label)
		}
	}
	if len(labels) == 0 {
		return false, nil
	}

	beeep.AppName = AppName
	title := "Burnout detected"
	if len(labels) > 1 {
		title = fmt.Sprintf("Burnout detected in %d periods", len(labels))
	}
	if err := alertFunc(title, message(labels), ""); err != nil {
		return false, fmt.Errorf("failed to send burnout notification: %w", err)
	}
	return true, nil
}

// message lists the most recent labels; callouts arrive in chronological order.
func message(labels []string) string {
	shown := labels
	if len(shown) > maxLabels {
		shown = shown[len(shown)-maxLabels:]
	}
	msg := "Enjoyment fell while playtime held up: " + strings.Join(shown, ", ")
	if extra := len(labels) - len(shown); extra > 0 {
		msg += fmt.Sprintf(" (+%d earlier)", extra)
	}
	return msg
}
