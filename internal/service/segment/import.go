package segment

import (
	"strings"

	"github.com/ignite/campaign-studio/internal/domain"
)

// ParseContacts reads one contact per line in the form "email" or
// "email,name". Blank lines are ignored. Lines whose address has no "@" are
// counted as skipped. Only the first comma splits, so names may contain
// commas.
func ParseContacts(text string) ([]domain.Contact, int) {
	var (
		out     []domain.Contact
		skipped int
	)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		email, name, _ := strings.Cut(line, ",")
		email = strings.TrimSpace(email)
		if !strings.Contains(email, "@") {
			skipped++
			continue
		}
		out = append(out, domain.Contact{Email: email, Name: strings.TrimSpace(name)})
	}
	return out, skipped
}
