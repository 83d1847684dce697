package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"odidscan/internal/app"
	"odidscan/internal/odid"
)

// execute runs the root command with args and returns the resolved config and output
func execute(t *testing.T, args ...string) (app.Config, string, error) {
	t.Helper()

	var got app.Config
	cmd := newRootCommand(func(config app.Config) error {
		got = config
		return nil
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return got, out.String(), err
}

// TestRootCommand_Defaults tests flag defaults
func TestRootCommand_Defaults(t *testing.T) {
	config, _, err := execute(t, "--pcap", "capture.pcap")
	require.NoError(t, err)

	expected := app.DefaultConfig()
	expected.PcapFile = "capture.pcap"
	assert.Equal(t, expected, config)
}

// TestRootCommand_Flags tests that every flag reaches the config
func TestRootCommand_Flags(t *testing.T) {
	config, _, err := execute(t,
		"--interface", "wlan0mon",
		"--monitor",
		"--frequency", "5180",
		"--min-rssi", "-85",
		"--repeat",
		"--scan-interval", "250ms",
		"--scan-duration", "5s",
		"--workers", "4",
		"--log-dir", "",
		"--utc=false",
		"--log-retention", "30",
		"--db", "odid.db",
		"--metrics-addr", ":9100",
		"--quiet",
		"--log-format", "json",
		"--stats-interval", "0",
		"-v",
	)
	require.NoError(t, err)

	assert.Equal(t, "wlan0mon", config.Interface)
	assert.True(t, config.Monitor)
	assert.Equal(t, 5180, config.Frequency)
	assert.Equal(t, -85, config.MinRSSI)
	assert.True(t, config.Repeat)
	assert.Equal(t, 250*time.Millisecond, config.ScanInterval)
	assert.Equal(t, 5*time.Second, config.ScanDuration)
	assert.Equal(t, 4, config.Workers)
	assert.Empty(t, config.LogDir)
	assert.False(t, config.LogRotateUTC)
	assert.Equal(t, 30, config.LogRetentionDays)
	assert.Equal(t, "odid.db", config.DBPath)
	assert.Equal(t, ":9100", config.MetricsAddr)
	assert.True(t, config.Quiet)
	assert.Equal(t, "json", config.LogFormat)
	assert.Zero(t, config.StatsInterval)
	assert.True(t, config.Verbose)
}

// TestRootCommand_ConfigFile tests that flags take precedence over the file
func TestRootCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odidscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pcap: from-file.pcap
workers: 3
min_rssi: -90
scan_interval: 1s
log_format: json
`), 0644))

	config, _, err := execute(t, "--config", path, "--workers", "8")
	require.NoError(t, err)

	assert.Equal(t, "from-file.pcap", config.PcapFile)
	assert.Equal(t, 8, config.Workers)
	assert.Equal(t, -90, config.MinRSSI)
	assert.Equal(t, time.Second, config.ScanInterval)
	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, app.DefaultFrequency, config.Frequency)
}

// TestRootCommand_ConfigFileErrors tests a missing or malformed file
func TestRootCommand_ConfigFileErrors(t *testing.T) {
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gain: 40\n"), 0644))
	_, _, err = execute(t, "--config", path)
	assert.Error(t, err)
}

// TestRootCommand_Version tests the version output
func TestRootCommand_Version(t *testing.T) {
	ran := false
	cmd := newRootCommand(func(app.Config) error {
		ran = true
		return nil
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})
	require.NoError(t, cmd.Execute())

	assert.False(t, ran)
	assert.Contains(t, out.String(), "odidscan Remote ID scanner")
	assert.Contains(t, out.String(), "Version: ")
}

// beaconHex builds a beacon carrying one Basic ID message, as hex
func beaconHex(serial string) string {
	frame := []byte{0x80, 0x00, 0x00, 0x00}
	frame = append(frame, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
	frame = append(frame, 0x60, 0x60, 0x1F, 0x12, 0x34, 0x56)
	frame = append(frame, 0x60, 0x60, 0x1F, 0x12, 0x34, 0x56)
	frame = append(frame, 0x00, 0x00)
	frame = append(frame, make([]byte, 12)...)

	var slot odid.Slot
	slot[1] = byte(odid.IDTypeSerialNumber)<<4 | byte(odid.UATypeHelicopterMultirotor)
	copy(slot[2:], serial)

	frame = append(frame, 0xDD, 0x1E)
	frame = append(frame, odid.Signature...)
	frame = append(frame, 0x01, 0xF2, odid.SlotSize, 0x01)
	frame = append(frame, slot[:]...)
	return hex.EncodeToString(frame)
}

// TestDecodeCommand tests the decode subcommand
func TestDecodeCommand(t *testing.T) {
	t.Run("Remote ID frame", func(t *testing.T) {
		_, out, err := execute(t, "decode", "--rssi", "-60", beaconHex("1581F5FHD23M0012ABCD"))
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "6    (2.4GHz)")
		assert.Contains(t, lines[0], "-60")
		assert.Contains(t, lines[0], "60:60:1f:12:34:56")
		assert.Contains(t, lines[1], "BASIC_ID")
		assert.Contains(t, lines[1], "id=1581F5FHD23M0012ABCD")
	})

	t.Run("Spaced hex with hexdump", func(t *testing.T) {
		raw := beaconHex("SPACED")
		var spaced []string
		for i := 0; i < len(raw); i += 2 {
			spaced = append(spaced, raw[i:i+2])
		}

		_, out, err := execute(t, "decode", "--hexdump", strings.Join(spaced, " "))
		require.NoError(t, err)
		assert.Contains(t, out, "00000000  80 00 00 00")
		assert.Contains(t, out, "id=SPACED")
	})

	t.Run("No Remote ID", func(t *testing.T) {
		_, _, err := execute(t, "decode", "80000000ffffffffffff")
		assert.ErrorIs(t, err, odid.ErrSignatureNotFound)
	})

	t.Run("Invalid hex", func(t *testing.T) {
		_, _, err := execute(t, "decode", "zz")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid hex frame")
	})

	t.Run("Missing argument", func(t *testing.T) {
		_, _, err := execute(t, "decode")
		assert.Error(t, err)
	})
}

// TestParseHex tests separator handling
func TestParseHex(t *testing.T) {
	tests := []struct {
		input    string
		expected []byte
	}{
		{"fa0bbc0d", []byte{0xFA, 0x0B, 0xBC, 0x0D}},
		{"FA 0B BC 0D", []byte{0xFA, 0x0B, 0xBC, 0x0D}},
		{"fa:0b:bc:0d", []byte{0xFA, 0x0B, 0xBC, 0x0D}},
		{"0xfa0b", []byte{0xFA, 0x0B}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			data, err := parseHex(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, data)
		})
	}
}
