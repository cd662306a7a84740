package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type styleDecl struct {
	property string
	value    string
}

func parseStyle(raw string) []styleDecl {
	var decls []styleDecl
	for _, part := range strings.Split(raw, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		decls = append(decls, styleDecl{property: prop, value: strings.TrimSpace(value)})
	}
	return decls
}

func setStyle(sel *goquery.Selection, property, value string) {
	raw, _ := sel.Attr("style")
	decls := parseStyle(raw)
	property = strings.ToLower(property)

	replaced := false
	for i := range decls {
		if decls[i].property == property {
			decls[i].value = value
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, styleDecl{property: property, value: value})
	}

	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.property+": "+d.value)
	}
	sel.SetAttr("style", strings.Join(parts, "; "))
}
