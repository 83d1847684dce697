package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odidscan/internal/odid"
	"odidscan/internal/store"
)

// decodedBeacon decodes a beacon carrying the given slots
func decodedBeacon(t *testing.T, slots ...odid.Slot) odid.DecodedFrame {
	t.Helper()

	frame := odid.RawFrame{
		Data:        beaconFrame(slots...),
		RSSI:        -55,
		Frequency:   2437,
		Transmitter: testMAC,
		Timestamp:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	result := odid.NewDecoder(testLogger()).DecodeFrame(frame)
	require.True(t, result.Found())
	return result
}

// TestTextSink tests the human-readable output block
func TestTextSink(t *testing.T) {
	frame := decodedBeacon(t, serialSlot("1581F5FHD23M0012ABCD"), locationSlot(473977418, 85455938))

	t.Run("Plain", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTextSink(&buf, false).Write(context.Background(), frame))

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "6    (2.4GHz)")
		assert.Contains(t, lines[0], "60:60:1f:12:34:56")
		assert.Contains(t, lines[1], "BASIC_ID")
		assert.Contains(t, lines[1], "1581F5FHD23M0012ABCD")
		assert.Contains(t, lines[2], "LOCATION_VECTOR")
		assert.Contains(t, lines[2], "lat=47.3977418")
	})

	t.Run("Hexdump", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTextSink(&buf, true).Write(context.Background(), frame))
		assert.Contains(t, buf.String(), "00000000  80 00 00 00")
	})

	t.Run("Truncated", func(t *testing.T) {
		data := beaconFrame(serialSlot("TRUNC"))
		// Declare three messages while only one is present
		data[len(data)-odid.SlotSize-1] = 3

		result := odid.NewDecoder(testLogger()).DecodeFrame(odid.RawFrame{Data: data, Frequency: 2437})
		require.True(t, result.Truncated())

		var buf bytes.Buffer
		require.NoError(t, NewTextSink(&buf, false).Write(context.Background(), result))
		assert.Contains(t, buf.String(), "pack truncated: 1 of 3 messages")
	})

	t.Run("Concurrent writes stay whole", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewTextSink(&buf, false)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = sink.Write(context.Background(), frame)
			}()
		}
		wg.Wait()

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 60)
		for i := 0; i < len(lines); i += 3 {
			assert.Contains(t, lines[i+1], "BASIC_ID")
			assert.Contains(t, lines[i+2], "LOCATION_VECTOR")
		}
	})
}

// failingWriter rejects every write
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

// TestTextSink_WriteError tests that writer errors are returned
func TestTextSink_WriteError(t *testing.T) {
	frame := decodedBeacon(t, serialSlot("ERR"))
	assert.Error(t, NewTextSink(failingWriter{}, false).Write(context.Background(), frame))
}

// TestRecordSink tests one JSON record per message
func TestRecordSink(t *testing.T) {
	frame := decodedBeacon(t, serialSlot("1581F5FHD23M0012ABCD"), locationSlot(473977418, 85455938))

	var buf bytes.Buffer
	require.NoError(t, NewRecordSink(&buf).Write(context.Background(), frame))

	var records []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var record map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.Len(t, records, 2)

	for _, record := range records {
		assert.Equal(t, "remote id", record["msg"])
		assert.Equal(t, "60:60:1f:12:34:56", record["transmitter"])
		assert.Equal(t, float64(-55), record["rssi"])
		assert.Equal(t, float64(6), record["channel"])
		assert.Equal(t, "2.4GHz", record["band"])
		assert.Equal(t, "2024-05-01T12:00:00Z", record["time"])
	}

	assert.Equal(t, "BASIC_ID", records[0]["type"])
	assert.Equal(t, "1581F5FHD23M0012ABCD", records[0]["id"])
	assert.Equal(t, "LOCATION_VECTOR", records[1]["type"])
	assert.InDelta(t, 47.3977418, records[1]["lat"], 1e-7)
	assert.Equal(t, "AIRBORNE", records[1]["status"])
}

// TestStoreSink tests that frames land in the database
func TestStoreSink(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "odid.db"))
	require.NoError(t, err)
	defer db.Close()

	sink := NewStoreSink(db)
	frame := decodedBeacon(t, serialSlot("1581F5FHD23M0012ABCD"), locationSlot(473977418, 85455938))
	require.NoError(t, sink.Write(context.Background(), frame))

	counts, err := db.CountByType(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"BASIC_ID": 1, "LOCATION_VECTOR": 1}, counts)

	macs, err := db.Transmitters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"60:60:1f:12:34:56"}, macs)
}
