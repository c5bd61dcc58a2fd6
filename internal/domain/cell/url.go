package cell

import (
	"strings"

	"github.com/rpggio/tabula/internal/domain/field"
)

type urlTypeOption struct {
	reg *Registry
}

func (u *urlTypeOption) FieldType() field.FieldType { return field.URL }

func (u *urlTypeOption) DecodeCell(c Cell, fromType field.FieldType, f *field.Field) Data {
	content := c.Raw
	if !c.Empty() && fromType != field.URL {
		// URL is a textual type: foreign cells contribute their stringified
		// form as content.
		if strat, ok := u.reg.Lookup(fromType); ok {
			content = strat.DecodeCell(c, fromType, f).String()
		}
	}
	return URLData{Content: content, URL: deriveURL(content)}
}

func (u *urlTypeOption) ApplyChangeset(changeset string, old Cell, f *field.Field) (Cell, Data, error) {
	next := Cell{FieldType: field.URL, Raw: changeset}
	return next, URLData{Content: changeset, URL: deriveURL(changeset)}, nil
}

func (u *urlTypeOption) FilterMatch(flt field.CellFilter, data Data) bool {
	textFilter, ok := flt.(field.TextFilter)
	if !ok {
		return true
	}
	return textFilter.IsVisible(data.String())
}

func (u *urlTypeOption) Compare(a, b Data) int {
	return strings.Compare(a.String(), b.String())
}

// deriveURL turns cell content into a navigable address: content with an
// explicit scheme passes through, host-like content gets https.
func deriveURL(content string) string {
	if content == "" {
		return ""
	}
	if strings.Contains(content, "://") {
		return content
	}
	if strings.Contains(content, ".") && !strings.ContainsAny(content, " \t") {
		return "https://" + content
	}
	return ""
}
