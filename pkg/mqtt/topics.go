package mqtt

import "fmt"

// DefaultTemperatureTopic is where temperature updates are published
// when no topic is configured.
const DefaultTemperatureTopic = "duskshift/temperature"

// TemperatureTopic returns the topic temperature updates are published
// to. When a screen is selected the topic is scoped to it, so several
// instances can drive different displays through one broker.
// Pattern: {base}/screen/{screen}
func TemperatureTopic(base string, screen int) string {
	if screen < 0 {
		return base
	}
	return fmt.Sprintf("%s/screen/%d", base, screen)
}
