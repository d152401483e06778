package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/baanlist-dev/baanlist/internal/models"
	"github.com/baanlist-dev/baanlist/internal/slug"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

const (
	ColorGreen = 65280    // #00FF00 - Listing published
	ColorRed   = 16711680 // #FF0000 - Listing removed

	Username = "Baanlist Listings"
)

// webhookURL is the ops channel endpoint; notifications are disabled
// when it is unset.
func webhookURL() string {
	return os.Getenv("LISTINGS_WEBHOOK_URL")
}

// NotifyPropertyCreated posts a new-listing message to the ops
// channel. Failures are logged and otherwise ignored; the listing
// itself is already committed.
func NotifyPropertyCreated(property models.Property, project models.Project) {
	url := webhookURL()
	if url == "" {
		return
	}

	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "New listing published",
				Description: property.TitleTH,
				Color:       ColorGreen,
				Fields: []DiscordWebhookField{
					{Name: "Project", Value: project.NameTH, Inline: true},
					{Name: "Type", Value: property.Type, Inline: true},
					{Name: "Price", Value: fmt.Sprintf("%.0f THB", property.Price), Inline: true},
					{Name: "Path", Value: slug.BuildPropertyPath(property), Inline: false},
				},
				Footer:    &DiscordFooter{Text: "Baanlist dashboard"},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	if err := sendDiscordWebhook(url, payload); err != nil {
		log.Printf("Failed to send listing-created notification: %v", err)
	}
}

// NotifyPropertyDeleted posts a removal message to the ops channel.
func NotifyPropertyDeleted(property models.Property) {
	url := webhookURL()
	if url == "" {
		return
	}

	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "Listing removed",
				Description: property.TitleTH,
				Color:       ColorRed,
				Fields: []DiscordWebhookField{
					{Name: "Project", Value: property.ProjectSlug, Inline: true},
					{Name: "Type", Value: property.Type, Inline: true},
					{Name: "Listing ID", Value: fmt.Sprintf("%d", property.ID), Inline: true},
				},
				Footer:    &DiscordFooter{Text: "Baanlist dashboard"},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	if err := sendDiscordWebhook(url, payload); err != nil {
		log.Printf("Failed to send listing-removed notification: %v", err)
	}
}

func sendDiscordWebhook(webhookURL string, payload DiscordWebhookRequest) error {
	body, err := json.Marshal(payload)

	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Post(webhookURL, "application/json", bytes.NewReader(body))

	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
