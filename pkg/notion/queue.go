package notion

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/model"
)

// Queue statuses.
const (
	StatusQueued   = "Queued"
	StatusFound    = "Found"
	StatusNotFound = "Not Found"
)

// Property names of the lookup queue database.
const (
	PropTitle      = "Title"
	PropCompany    = "Company"
	PropFirstName  = "First Name"
	PropLastName   = "Last Name"
	PropSource     = "Source"
	PropConfidence = "Confidence"
	PropStatus     = "Status"
)

// QueuedLookup is a queue page awaiting a lookup.
type QueuedLookup struct {
	PageID  string
	Request model.LookupRequest
}

// QueryAll fetches every page matching query, following pagination
// cursors. Rate limiting is enforced by the Client.
func QueryAll(ctx context.Context, c Client, dbID string, query *notionapi.DatabaseQueryRequest) ([]notionapi.Page, error) {
	var (
		all    []notionapi.Page
		cursor notionapi.Cursor
	)
	for {
		req := &notionapi.DatabaseQueryRequest{StartCursor: cursor}
		if query != nil {
			req.Filter = query.Filter
			req.Sorts = query.Sorts
			req.PageSize = query.PageSize
		}

		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all page")
		}
		all = append(all, resp.Results...)

		if !resp.HasMore || resp.NextCursor == "" {
			return all, nil
		}
		cursor = resp.NextCursor
	}
}

// QueryQueued returns the queued lookups in dbID. Pages missing a title or
// company are skipped.
func QueryQueued(ctx context.Context, c Client, dbID string) ([]QueuedLookup, error) {
	pages, err := QueryAll(ctx, c, dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: PropStatus,
			Status:   &notionapi.StatusFilterCondition{Equals: StatusQueued},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "notion: query queued lookups")
	}

	out := make([]QueuedLookup, 0, len(pages))
	for _, p := range pages {
		q, ok := ParsePage(p)
		if !ok {
			zap.L().Debug("notion: skipping incomplete queue page", zap.String("page_id", string(p.ID)))
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// ParsePage reads the Title and Company properties of a queue page. Either
// may be a title or rich_text property.
func ParsePage(p notionapi.Page) (QueuedLookup, bool) {
	req := model.LookupRequest{
		Role:    propertyText(p.Properties[PropTitle]),
		Company: propertyText(p.Properties[PropCompany]),
	}.Normalize()
	if !req.Valid() {
		return QueuedLookup{}, false
	}
	return QueuedLookup{PageID: string(p.ID), Request: req}, true
}

func propertyText(prop notionapi.Property) string {
	switch v := prop.(type) {
	case *notionapi.TitleProperty:
		return plainText(v.Title)
	case notionapi.TitleProperty:
		return plainText(v.Title)
	case *notionapi.RichTextProperty:
		return plainText(v.RichText)
	case notionapi.RichTextProperty:
		return plainText(v.RichText)
	}
	return ""
}

func plainText(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		if rt.PlainText != "" {
			b.WriteString(rt.PlainText)
		} else if rt.Text != nil {
			b.WriteString(rt.Text.Content)
		}
	}
	return b.String()
}

func richText(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		Type: notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
		},
	}
}

// ResultProperties renders a lookup result as queue page properties. Error
// results are written as Not Found with the error message as the source.
func ResultProperties(r model.LookupResult) notionapi.Properties {
	status := StatusFound
	source := r.BestSource()
	if !r.IsResolved() {
		status = StatusNotFound
		if r.IsError() {
			source = r.Error
		}
	}
	return notionapi.Properties{
		PropFirstName:  richText(r.FirstName),
		PropLastName:   richText(r.LastName),
		PropSource:     richText(source),
		PropConfidence: notionapi.NumberProperty{Type: notionapi.PropertyTypeNumber, Number: r.ConfidenceScore},
		PropStatus:     notionapi.StatusProperty{Status: notionapi.Status{Name: status}},
	}
}

// WriteResult stores a lookup result on its queue page.
func WriteResult(ctx context.Context, c Client, pageID string, r model.LookupResult) error {
	_, err := c.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: ResultProperties(r)})
	if err != nil {
		return eris.Wrapf(err, "notion: write result to page %s", pageID)
	}
	return nil
}

// Enqueue creates a Queued page for each valid request and returns the
// number created. Invalid requests are skipped.
func Enqueue(ctx context.Context, c Client, dbID string, reqs []model.LookupRequest) (int, error) {
	created := 0
	for _, r := range reqs {
		r = r.Normalize()
		if !r.Valid() {
			continue
		}
		if ctx.Err() != nil {
			return created, eris.Wrap(ctx.Err(), "notion: enqueue cancelled")
		}

		_, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(dbID),
			},
			Properties: notionapi.Properties{
				PropTitle: notionapi.TitleProperty{
					Type: notionapi.PropertyTypeTitle,
					Title: []notionapi.RichText{
						{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: r.Role}},
					},
				},
				PropCompany: richText(r.Company),
				PropStatus:  notionapi.StatusProperty{Status: notionapi.Status{Name: StatusQueued}},
			},
		})
		if err != nil {
			return created, eris.Wrap(err, "notion: create queue page")
		}
		created++
	}
	return created, nil
}
