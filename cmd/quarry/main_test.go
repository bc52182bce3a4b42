package main

import (
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	tests := []struct {
		level   string
		wantErr bool
	}{
		{level: "debug"},
		{level: "info"},
		{level: "WARN"},
		{level: "error"},
		{level: "verbose", wantErr: true},
		{level: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			set := flag.NewFlagSet("test", flag.ContinueOnError)
			set.String("log-level", tt.level, "")
			c := cli.NewContext(&cli.App{}, set, nil)

			err := setupLogger(c)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIndexCommandRequiresLanguage(t *testing.T) {
	app := &cli.App{
		Name: "quarry",
		Commands: []*cli.Command{
			{
				Name:   "index",
				Action: func(c *cli.Context) error { return nil },
				Flags:  append(storeFlags(), indexFlags()...),
			},
		},
	}

	err := app.Run([]string{"quarry", "index"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "language")
}

func TestIndexConfigFromFlags(t *testing.T) {
	var got indexConfig
	app := &cli.App{
		Name: "quarry",
		Commands: []*cli.Command{
			{
				Name: "index",
				Action: func(c *cli.Context) error {
					got = indexConfigFromFlags(c)
					return nil
				},
				Flags: append(storeFlags(), indexFlags()...),
			},
		},
	}

	err := app.Run([]string{
		"quarry", "index",
		"--language", "go",
		"--path", "/corpus",
		"--chunk-min", "100",
		"--chunk-max", "2048",
		"--batch-size", "25",
		"--concurrency", "8",
		"--no-enrich",
	})
	require.NoError(t, err)

	assert.Equal(t, "go", got.Language)
	assert.Equal(t, "/corpus", got.Path)
	assert.Equal(t, 100, got.Chunks.MinSize)
	assert.Equal(t, 2048, got.Chunks.MaxSize)
	assert.Equal(t, 25, got.BatchSize)
	assert.Equal(t, 8, got.Concurrency)
	assert.False(t, got.Enrich)
}
