package drive

import (
	"context"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	fileFields = "id, name, mimeType, modifiedTime, size, parents, thumbnailLink, iconLink, webViewLink, hasThumbnail, appProperties"
	listFields = "nextPageToken, files(" + fileFields + ")"

	mimeFolder      = "application/vnd.google-apps.folder"
	mimeSpreadsheet = "application/vnd.google-apps.spreadsheet"

	defaultPageSize = 100
)

// Client wraps the Drive v3 and Sheets v4 APIs. It is stateless: every call
// builds a service around the caller's pass-through token, and no retries
// happen at this layer — callers own retry policy.
type Client struct {
	PageSize int64
}

// NewClient constructs a Client. A pageSize of 0 falls back to the default.
func NewClient(pageSize int64) *Client {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{PageSize: pageSize}
}

// CreateInput describes a folder or spreadsheet to provision.
type CreateInput struct {
	Name          string
	ParentID      string
	AppProperties map[string]string
}

func (c *Client) driveService(ctx context.Context, token string) (*drive.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return drive.NewService(ctx, option.WithTokenSource(ts))
}

func (c *Client) sheetsService(ctx context.Context, token string) (*sheets.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return sheets.NewService(ctx, option.WithTokenSource(ts))
}

// GetFile fetches the tracked metadata for a single file.
func (c *Client) GetFile(ctx context.Context, token, fileID string) (File, error) {
	srv, err := c.driveService(ctx, token)
	if err != nil {
		return File{}, remoteErr("get", err)
	}
	f, err := srv.Files.Get(fileID).Fields(fileFields).Context(ctx).Do()
	if err != nil {
		return File{}, remoteErr("get", err)
	}
	return fromAPI(f), nil
}

// ListFolder returns one page of a folder's direct, non-trashed children.
// Callers drive pagination by resupplying NextPageToken until it is empty.
func (c *Client) ListFolder(ctx context.Context, token, folderID, pageToken string) (FileList, error) {
	srv, err := c.driveService(ctx, token)
	if err != nil {
		return FileList{}, remoteErr("list", err)
	}

	escaped := strings.ReplaceAll(folderID, "'", `\'`)
	call := srv.Files.List().
		Q("'" + escaped + "' in parents and trashed = false").
		Fields(listFields).
		PageSize(c.PageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	page, err := call.Do()
	if err != nil {
		return FileList{}, remoteErr("list", err)
	}

	out := FileList{NextPageToken: page.NextPageToken}
	for _, f := range page.Files {
		out.Files = append(out.Files, fromAPI(f))
	}
	return out, nil
}

// PatchAppProperties replaces the tracked app-property map on a file. Drive
// drops keys that are absent from the patch, so props must be the complete
// desired map (see Merge).
func (c *Client) PatchAppProperties(ctx context.Context, token, fileID string, props map[string]string) (File, error) {
	srv, err := c.driveService(ctx, token)
	if err != nil {
		return File{}, remoteErr("patch", err)
	}
	f, err := srv.Files.Update(fileID, &drive.File{AppProperties: props}).
		Fields("id, appProperties").
		Context(ctx).
		Do()
	if err != nil {
		return File{}, remoteErr("patch", err)
	}
	return fromAPI(f), nil
}

// CreateFolder provisions a folder, optionally under a parent.
func (c *Client) CreateFolder(ctx context.Context, token string, in CreateInput) (File, error) {
	return c.create(ctx, token, in, mimeFolder)
}

// CreateSpreadsheet provisions a Google Sheets file, optionally under a parent.
func (c *Client) CreateSpreadsheet(ctx context.Context, token string, in CreateInput) (File, error) {
	return c.create(ctx, token, in, mimeSpreadsheet)
}

func (c *Client) create(ctx context.Context, token string, in CreateInput, mimeType string) (File, error) {
	srv, err := c.driveService(ctx, token)
	if err != nil {
		return File{}, remoteErr("create", err)
	}

	meta := &drive.File{
		Name:          in.Name,
		MimeType:      mimeType,
		AppProperties: in.AppProperties,
	}
	if in.ParentID != "" {
		meta.Parents = []string{in.ParentID}
	}

	f, err := srv.Files.Create(meta).Fields(fileFields).Context(ctx).Do()
	if err != nil {
		return File{}, remoteErr("create", err)
	}
	return fromAPI(f), nil
}

// WriteSheetValues writes a rectangular value range into a spreadsheet.
// Callers treating this as best-effort enrichment may ignore the error.
func (c *Client) WriteSheetValues(ctx context.Context, token, spreadsheetID, rangeA1 string, values [][]any) error {
	srv, err := c.sheetsService(ctx, token)
	if err != nil {
		return remoteErr("sheets.write", err)
	}
	vr := &sheets.ValueRange{Values: values}
	_, err = srv.Spreadsheets.Values.Update(spreadsheetID, rangeA1, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return remoteErr("sheets.write", err)
	}
	return nil
}
