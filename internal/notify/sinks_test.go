package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/config"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailSinkRequiresConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want bool
	}{
		{"fully configured", config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, EmailFrom: "bot@example.com", EmailTo: "ops@example.com"}, true},
		{"missing host", config.Config{EmailFrom: "bot@example.com", EmailTo: "ops@example.com"}, false},
		{"missing from", config.Config{SMTPHost: "smtp.example.com", EmailTo: "ops@example.com"}, false},
		{"missing to", config.Config{SMTPHost: "smtp.example.com", EmailFrom: "bot@example.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := NewEmailSink(&tt.cfg)
			assert.Equal(t, tt.want, sink != nil)
		})
	}
}

func TestEmailSinkWantsEscalationsOnly(t *testing.T) {
	sink := NewEmailSink(&config.Config{
		SMTPHost: "smtp.example.com", SMTPPort: 587,
		EmailFrom: "bot@example.com", EmailTo: "ops@example.com",
	})
	require.NotNil(t, sink)

	assert.True(t, sink.Wants(models.TagEscalateAuth))
	assert.True(t, sink.Wants(models.TagEscalateManual))
	assert.False(t, sink.Wants(models.TagBoletoIssued), "success outcomes are not emailed")
	assert.False(t, sink.Wants(models.TagOptionsComputed))
}

func TestNewSheetSinkRequiresURL(t *testing.T) {
	assert.Nil(t, NewSheetSink(&config.Config{}))
	assert.NotNil(t, NewSheetSink(&config.Config{SheetWebhookURL: "https://example.com/hook"}))
}

func TestSheetSinkWantsEveryTerminalTag(t *testing.T) {
	sink := NewSheetSink(&config.Config{SheetWebhookURL: "https://example.com/hook"})
	assert.True(t, sink.Wants(models.TagBoletoIssued))
	assert.True(t, sink.Wants(models.TagEscalateNoOptions))
	assert.False(t, sink.Wants(models.TagOptionsComputed))
}

func TestSheetSinkDeliver(t *testing.T) {
	var row map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&row))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewSheetSink(&config.Config{SheetWebhookURL: server.URL})
	event := Event{
		ID:       "evt-1",
		Tag:      models.TagEscalateNoOptions,
		Phone:    "+5521987654321",
		Document: "52998224725",
		Detail:   "simulação vazia",
		At:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, sink.Deliver(context.Background(), event))

	assert.Equal(t, "evt-1", row["event_id"])
	assert.Equal(t, "TRANSBORDO_SEM_OPCOES", row["tag"])
	assert.Equal(t, "+5521987654321", row["phone"])
	assert.Equal(t, "simulação vazia", row["detail"])
	assert.Equal(t, "2026-08-30 12:00:00", row["at"])
}

func TestSheetSinkDeliverRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	sink := NewSheetSink(&config.Config{SheetWebhookURL: server.URL})
	err := sink.Deliver(context.Background(), NewEvent(models.TagBoletoIssued, "x", "y", ""))
	assert.Error(t, err)
}

func TestConfiguredSinks(t *testing.T) {
	none := ConfiguredSinks(&config.Config{})
	assert.Empty(t, none)

	both := ConfiguredSinks(&config.Config{
		SMTPHost: "smtp.example.com", SMTPPort: 587,
		EmailFrom: "bot@example.com", EmailTo: "ops@example.com",
		SheetWebhookURL: "https://example.com/hook",
	})
	require.Len(t, both, 2)
	assert.Equal(t, "email", both[0].Name())
	assert.Equal(t, "sheet", both[1].Name())
}
