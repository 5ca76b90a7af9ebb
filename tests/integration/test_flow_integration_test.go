//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("BRAINVENTURE_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

func doGet(t *testing.T, client *http.Client, url string, out any) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d: %s", url, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("GET %s: decode: %v", url, err)
	}
}

func doPost(t *testing.T, client *http.Client, url string, payload, out any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s: status %d: %s", url, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("POST %s: decode: %v", url, err)
	}
}

func TestTypologyTestJourney(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	var test struct {
		Questions []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"questions"`
	}
	doGet(t, client, base+"/api/test", &test)
	if len(test.Questions) == 0 {
		t.Fatalf("no questions served")
	}

	answers := map[string]int{}
	for i, q := range test.Questions {
		answers[q.ID] = 1 + i%5
	}
	var submit struct {
		Saved  bool `json:"saved"`
		Result struct {
			DominantType string             `json:"dominant_type"`
			Scores       map[string]float64 `json:"scores"`
		} `json:"result"`
	}
	doPost(t, client, base+"/api/test/results", map[string]any{"answers": answers}, &submit)
	if !submit.Saved {
		t.Fatalf("result was not saved")
	}
	if submit.Result.DominantType == "" {
		t.Fatalf("no dominant type in %+v", submit.Result)
	}

	var hist struct {
		Tests []struct {
			DominantType string `json:"dominant_type"`
			Date         string `json:"date"`
		} `json:"tests"`
	}
	doGet(t, client, base+"/api/test/history", &hist)
	if len(hist.Tests) == 0 {
		t.Fatalf("history is empty after save")
	}
	newest := hist.Tests[0]
	if newest.DominantType != submit.Result.DominantType {
		t.Fatalf("newest history entry %+v does not match submitted result", newest)
	}
	if _, err := time.Parse("2006-01-02 15:04:05", newest.Date); err != nil {
		t.Fatalf("bad date stamp %q: %v", newest.Date, err)
	}

	var typeResp struct {
		Type struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"type"`
	}
	doGet(t, client, fmt.Sprintf("%s/api/types/%s", base, submit.Result.DominantType), &typeResp)
	if typeResp.Type.Name == "" {
		t.Fatalf("dominant type has no catalog entry: %+v", typeResp)
	}
}
