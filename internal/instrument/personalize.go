package instrument

import "strings"

// UnsubscribeAnchor replaces {{unsubscribe}} in personalized previews.
const UnsubscribeAnchor = `<a href="#unsubscribe">Unsubscribe</a>`

// PersonalizationData is sample recipient data for a preview. Empty fields are
// treated as absent and their tokens are left in place.
type PersonalizationData struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
}

// ApplyPersonalization substitutes the sample data into the personalization
// tokens. {{unsubscribe}} always becomes the fixed Unsubscribe anchor.
func ApplyPersonalization(src string, data PersonalizationData) string {
	pairs := make([]string, 0, 8)
	if data.Name != "" {
		pairs = append(pairs, TokenName, data.Name)
	}
	if data.Email != "" {
		pairs = append(pairs, TokenEmail, data.Email)
	}
	if data.Company != "" {
		pairs = append(pairs, TokenCompany, data.Company)
	}
	pairs = append(pairs, TokenUnsubscribe, UnsubscribeAnchor)
	return strings.NewReplacer(pairs...).Replace(src)
}
