package main

// Trigger a sync sweep against a running API server:
//   GOOGLE_ACCESS_TOKEN=... go run ./cmd/sync -root <folderId>

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

func main() {
	baseURL := flag.String("base", "http://localhost:8787", "API base URL")
	root := flag.String("root", "", "Drive folder id to sweep (defaults to server config)")
	token := flag.String("token", "", "Drive access token (defaults to GOOGLE_ACCESS_TOKEN)")
	flag.Parse()

	tok := strings.TrimSpace(*token)
	if tok == "" {
		tok = strings.TrimSpace(os.Getenv("GOOGLE_ACCESS_TOKEN"))
	}
	if tok == "" {
		log.Fatal("a Drive access token is required (-token or GOOGLE_ACCESS_TOKEN)")
	}

	endpoint := strings.TrimRight(*baseURL, "/") + "/api/documents/sync"
	if *root != "" {
		endpoint += "?rootFolderId=" + url.QueryEscape(*root)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, nil)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("sync request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("sync failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var summary struct {
		Scanned  int `json:"scanned"`
		Upserted int `json:"upserted"`
		Patched  int `json:"patched"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		log.Fatalf("decode response: %v", err)
	}
	fmt.Printf("sync complete: scanned=%d upserted=%d patched=%d\n", summary.Scanned, summary.Upserted, summary.Patched)
}
