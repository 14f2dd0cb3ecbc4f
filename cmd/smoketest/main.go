package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type TestClient struct {
	baseURL string
	client  *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the server")
	testType := flag.String("test", "all", "Test type: all, health, playlist, validation")
	flag.Parse()

	client := NewTestClient(*baseURL)

	printHeader("MelodyMind - Smoke Tests")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, *baseURL, colorReset)

	switch *testType {
	case "all":
		client.runAllTests()
	case "health":
		client.testHealthCheck()
	case "playlist":
		client.testPlaylistGeneration()
	case "validation":
		client.testValidation()
	default:
		printError(fmt.Sprintf("Unknown test type: %s", *testType))
		fmt.Println("\nAvailable tests: all, health, playlist, validation")
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests() {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Validation", tc.testValidation},
		{"Playlist Generation", tc.testPlaylistGeneration},
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	url := fmt.Sprintf("%s/health", tc.baseURL)
	fmt.Printf("GET %s\n", url)

	resp, err := tc.client.Get(url)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		return false
	}

	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testValidation() bool {
	printTestHeader("Testing Validation (empty profile)")

	url := fmt.Sprintf("%s/api/generate-playlist", tc.baseURL)
	fmt.Printf("POST %s\n", url)

	resp, err := tc.client.Post(url, "application/json", strings.NewReader(`{}`))
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusBadRequest {
		printError(fmt.Sprintf("Expected status 400, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if _, ok := parsed["error"]; !ok {
		printError("Expected an 'error' field in response")
		return false
	}

	printSuccess("Empty profile rejected with 400")
	return true
}

func (tc *TestClient) testPlaylistGeneration() bool {
	printTestHeader("Testing Playlist Generation")

	url := fmt.Sprintf("%s/api/generate-playlist", tc.baseURL)
	fmt.Printf("POST %s\n", url)

	profile := map[string]interface{}{
		"birth_year": 1948,
		"hometown":   "Lagos",
		"language":   "Yoruba",
	}

	jsonData, _ := json.MarshalIndent(profile, "", "  ")
	fmt.Printf("%sRequest:%s\n", colorYellow, colorReset)
	fmt.Println(string(jsonData))
	fmt.Println()

	resp, err := tc.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	var response struct {
		PlaylistID string `json:"playlistId"`
		Tags       struct {
			EraTags      []string `json:"eraTags"`
			CulturalTags []string `json:"culturalTags"`
			Artists      []string `json:"artists"`
			CountryISO   string   `json:"countryISO"`
		} `json:"tags"`
		Playlist []struct {
			Name   string `json:"name"`
			Artist string `json:"artist"`
			Source string `json:"source"`
		} `json:"playlist"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	if len(response.Tags.EraTags) != 2 {
		printError(fmt.Sprintf("Expected 2 era tags, got %d", len(response.Tags.EraTags)))
		return false
	}
	if len(response.Tags.CulturalTags) != 8 {
		printError(fmt.Sprintf("Expected 8 cultural tags, got %d", len(response.Tags.CulturalTags)))
		return false
	}
	if len(response.Tags.Artists) != 20 {
		printError(fmt.Sprintf("Expected 20 artists, got %d", len(response.Tags.Artists)))
		return false
	}
	if len(response.Playlist) > 25 {
		printError(fmt.Sprintf("Playlist exceeds 25 tracks: %d", len(response.Playlist)))
		return false
	}

	printSuccess(fmt.Sprintf("Generated playlist %s with %d track(s)", response.PlaylistID, len(response.Playlist)))

	fmt.Printf("\n%sTags:%s eras=%v country=%s\n", colorGreen, colorReset, response.Tags.EraTags, response.Tags.CountryISO)
	for i, track := range response.Playlist {
		fmt.Printf("%2d. %s - %s [%s]\n", i+1, track.Artist, track.Name, track.Source)
	}

	return true
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}
