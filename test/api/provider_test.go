package api_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderListing(t *testing.T) {
	userID, token := createTestSession(t, "listing_viewer")
	otherID, _ := createTestSession(t, "listing_provider")

	resp := makeRequest("GET", "/providers", nil, token)
	require.True(t, resp.IsSuccess(), "failed to list providers: %s", resp.ErrMessage)

	var providers []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.RawData), &providers))

	ids := map[string]bool{}
	for _, provider := range providers {
		id, _ := provider["id"].(string)
		ids[id] = true
	}
	assert.False(t, ids[userID], "the requester never appears in their own listing")
	assert.True(t, ids[otherID])
}

func TestProviderDayAvailability(t *testing.T) {
	_, token := createTestSession(t, "day_customer")
	providerID, _ := createTestSession(t, "day_provider")

	date := testNow.AddDate(0, 0, 3).Truncate(24 * time.Hour).Add(14 * time.Hour)
	bookResp := makeRequest("POST", "/appointments", map[string]interface{}{
		"provider_id": providerID,
		"date":        date.Format(time.RFC3339),
	}, token)
	require.True(t, bookResp.IsSuccess(), "failed to book: %s", bookResp.ErrMessage)

	path := fmt.Sprintf("/providers/%s/day-availability?year=%d&month=%d&day=%d",
		providerID, date.Year(), int(date.Month()), date.Day())
	resp := makeRequest("GET", path, nil, token)
	require.True(t, resp.IsSuccess())

	var slots []struct {
		Hour      int  `json:"hour"`
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.RawData), &slots))
	require.Len(t, slots, 10)

	for _, slot := range slots {
		if slot.Hour == 14 {
			assert.False(t, slot.Available, "the booked hour is gone")
		} else {
			assert.True(t, slot.Available, "hour %d should stay free", slot.Hour)
		}
	}
}

func TestProviderMonthAvailability(t *testing.T) {
	_, token := createTestSession(t, "month_customer")
	providerID, _ := createTestSession(t, "month_provider")

	path := fmt.Sprintf("/providers/%s/month-availability?year=%d&month=%d",
		providerID, testNow.Year(), int(testNow.Month()))
	resp := makeRequest("GET", path, nil, token)
	require.True(t, resp.IsSuccess())

	var entries []struct {
		Day       int  `json:"day"`
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.RawData), &entries))
	assert.Len(t, entries, 31)
}

func TestProviderAvailabilityValidation(t *testing.T) {
	_, token := createTestSession(t, "validation_viewer")
	providerID, _ := createTestSession(t, "validation_provider")

	resp := makeRequest("GET", "/providers/not-a-uuid/day-availability?year=2020&month=7&day=20", nil, token)
	assert.False(t, resp.IsSuccess())

	path := fmt.Sprintf("/providers/%s/month-availability?year=2020&month=13", providerID)
	resp = makeRequest("GET", path, nil, token)
	assert.False(t, resp.IsSuccess())
}
