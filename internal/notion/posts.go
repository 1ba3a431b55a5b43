package notion

import (
	"marketing-site/internal/data"
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

// Property names of the blog database.
const (
	PropTitle     = "Title"
	PropSlug      = "Slug"
	PropSummary   = "Summary"
	PropPublished = "Published"
	PropFeatured  = "Featured"
	PropRegion    = "Region"
	PropCategory  = "Category"
	PropDate      = "Date"
	PropThumbnail = "Thumbnail"
	PropHero      = "Hero"
	PropReadTime  = "ReadTime"
)

// postFilter builds
//
//	Published = true AND (Region is empty OR Region = locale) [AND Category = c] [AND Slug = s]
func postFilter(f data.PostFilter) notionapi.Filter {
	and := notionapi.AndCompoundFilter{
		notionapi.PropertyFilter{
			Property: PropPublished,
			Checkbox: &notionapi.CheckboxFilterCondition{Equals: true},
		},
	}
	if f.Locale != "" {
		and = append(and, notionapi.OrCompoundFilter{
			notionapi.PropertyFilter{
				Property: PropRegion,
				Select:   &notionapi.SelectFilterCondition{IsEmpty: true},
			},
			notionapi.PropertyFilter{
				Property: PropRegion,
				Select:   &notionapi.SelectFilterCondition{Equals: f.Locale},
			},
		})
	}
	if f.Category != "" {
		and = append(and, notionapi.PropertyFilter{
			Property: PropCategory,
			Select:   &notionapi.SelectFilterCondition{Equals: f.Category},
		})
	}
	if f.Slug != "" {
		and = append(and, notionapi.PropertyFilter{
			Property: PropSlug,
			RichText: &notionapi.TextFilterCondition{Equals: f.Slug},
		})
	}
	return and
}

// recordFromPage maps a database row. Missing or mistyped properties degrade to
// zero values; slug validation is left to the caller.
func recordFromPage(p *notionapi.Page) data.PostRecord {
	props := p.Properties
	rec := data.PostRecord{
		PostSummary: data.PostSummary{
			ID:           string(p.ID),
			Slug:         strings.TrimSpace(textOf(props[PropSlug])),
			Title:        textOf(props[PropTitle]),
			Summary:      textOf(props[PropSummary]),
			PublishDate:  dateOf(props[PropDate]),
			IsFeatured:   checkboxOf(props[PropFeatured]),
			Category:     optional(textOf(props[PropCategory])),
			ThumbnailURL: optional(fileURLOf(props[PropThumbnail])),
			HeroImageURL: optional(fileURLOf(props[PropHero])),
			ReadTime:     numberOf(props[PropReadTime]),
		},
		Published: checkboxOf(props[PropPublished]),
		Region:    textOf(props[PropRegion]),
	}
	return rec
}

func textOf(prop notionapi.Property) string {
	switch v := prop.(type) {
	case *notionapi.TitleProperty:
		return plainText(v.Title)
	case *notionapi.RichTextProperty:
		return plainText(v.RichText)
	case *notionapi.SelectProperty:
		return v.Select.Name
	case *notionapi.URLProperty:
		return v.URL
	}
	return ""
}

func checkboxOf(prop notionapi.Property) bool {
	if v, ok := prop.(*notionapi.CheckboxProperty); ok {
		return v.Checkbox
	}
	return false
}

func dateOf(prop notionapi.Property) *time.Time {
	v, ok := prop.(*notionapi.DateProperty)
	if !ok || v.Date == nil || v.Date.Start == nil {
		return nil
	}
	t := time.Time(*v.Date.Start)
	return &t
}

func numberOf(prop notionapi.Property) *float64 {
	v, ok := prop.(*notionapi.NumberProperty)
	if !ok || v.Number == 0 {
		return nil
	}
	n := v.Number
	return &n
}

// fileURLOf returns the first file's URL, or the value of a plain URL property.
func fileURLOf(prop notionapi.Property) string {
	switch v := prop.(type) {
	case *notionapi.FilesProperty:
		for _, f := range v.Files {
			if f.External != nil && f.External.URL != "" {
				return f.External.URL
			}
			if f.File != nil && f.File.URL != "" {
				return f.File.URL
			}
		}
	case *notionapi.URLProperty:
		return v.URL
	}
	return ""
}

func plainText(rt []notionapi.RichText) string {
	var b strings.Builder
	for _, r := range rt {
		b.WriteString(r.PlainText)
	}
	return b.String()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
