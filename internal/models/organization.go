package models

// Organization is read-only to the engine; created and managed by the
// out-of-scope API service.
type Organization struct {
	ID     OrgID
	Name   string
	APIKey string
}

// PromptTemplate is one named template an AI stage can select by name.
type PromptTemplate struct {
	Name string `db:"name" json:"name"`
	Body string `db:"body" json:"body"`
}

// CustomHeader is a single {name, value} pair appended to AI requests.
type CustomHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OrgSettings holds the org-level fallback tier of the config resolver.
// Every field is optional; an empty/missing OrgSettings row is treated by
// the resolver as "no org-level value".
type OrgSettings struct {
	OrgID           OrgID
	AIEndpoint      string
	AIKey           string
	AICustomHeaders []CustomHeader
	OCREndpoint     string
	OCRKey          string
	PromptTemplates []PromptTemplate
}

// TemplateByName returns the template body for name, if configured.
func (s *OrgSettings) TemplateByName(name string) (string, bool) {
	for _, t := range s.PromptTemplates {
		if t.Name == name {
			return t.Body, true
		}
	}
	return "", false
}
