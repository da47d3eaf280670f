package theme

import (
	"testing"

	"github.com/theirongolddev/fintrack/internal/model"
)

func TestByName_FallsBackToDefault(t *testing.T) {
	if got := ByName("flexoki-light"); got.Name != "flexoki-light" {
		t.Fatalf("ByName(flexoki-light) = %q", got.Name)
	}
	if got := ByName("tokyo-night"); got.Name != FlexokiDark.Name {
		t.Fatalf("ByName(unknown) = %q, want %q", got.Name, FlexokiDark.Name)
	}
}

func TestThemes_DefineEveryRole(t *testing.T) {
	for _, th := range All {
		roles := map[string]string{
			"Surface":     string(th.Surface),
			"TextPrimary": string(th.TextPrimary),
			"Accent":      string(th.Accent),
			"danger":      string(th.Badge(model.BadgeDanger)),
			"over":        string(th.Health(model.HealthOver)),
			"housing":     string(th.Category(model.Housing)),
			"reminder":    string(th.Notification(model.NotifyBillReminder)),
		}
		for role, c := range roles {
			if c == "" {
				t.Fatalf("theme %s: %s color is empty", th.Name, role)
			}
		}
	}
	if len(Names()) != len(All) {
		t.Fatalf("Names() = %v", Names())
	}
}
