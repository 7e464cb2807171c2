package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/loudsdict/emit"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LOUDS_ALPHABET", "charID.chid")
	t.Setenv("LOUDS_SPLIT", "512")
	t.Setenv("LOUDS_BUNDLE", "dict")
	t.Setenv("LOUDS_ADDITIONAL", "emoji,kaomoji")
	t.Setenv("LOUDS_EMOJI_VERSION", "15.0")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "user", cfg.Identifier)
	require.Equal(t, ".", cfg.OutDir)
	require.Equal(t, 512, cfg.Split)
	require.NoError(t, cfg.Validate())
	names, err := cfg.BundledNames()
	require.NoError(t, err)
	require.Equal(t, []string{"emoji_dict_E15.0.txt", "kaomoji_dict.tsv"}, names)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loudsbuild.yaml")
	yaml := "identifier: memory\nalphabet: charID.chid\nsplit: 4\nsources: [a.txt, b.txt]\nbundle: dict\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Identifier)
	require.Equal(t, 4, cfg.Split)
	require.NoError(t, cfg.Validate())
	names, err := cfg.BundledNames()
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt", "b.txt"}, names)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Identifier: "user", Split: 0, EmojiVersion: "16.0"}
	err := cfg.Validate()
	require.ErrorIs(t, err, emit.ErrSplitSize)
	require.ErrorContains(t, err, "alphabet")

	cfg = &Config{Identifier: "user", Split: 8, Alphabet: "a", EmojiVersion: "9.0"}
	require.ErrorContains(t, cfg.Validate(), "emoji version")

	cfg = &Config{Identifier: "user", Split: 8, Alphabet: "a", EmojiVersion: "16", Sources: []string{"x"}}
	require.ErrorContains(t, cfg.Validate(), "bundle directory")
}

func TestLoadDenylistAndHotfix(t *testing.T) {
	dir := t.TempDir()
	deny := filepath.Join(dir, "deny.txt")
	require.NoError(t, os.WriteFile(deny, []byte("禁\n\n殺\r\n"), 0o644))
	denylist, err := loadDenylist(deny)
	require.NoError(t, err)
	require.True(t, denylist.Has("禁"))
	require.True(t, denylist.Has("殺"))
	require.Len(t, denylist, 2)

	h, err := loadHotfix(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	require.Nil(t, h)

	hotfix := filepath.Join(dir, "hotfix.json")
	payload := `{"metadata":{"lastUpdate":"2024-05-01T12:00:00"},"data":[{"word":"良い","ruby":"よい","wordWeight":-3,"lcid":1288,"rcid":1288,"mid":501}]}`
	require.NoError(t, os.WriteFile(hotfix, []byte(payload), 0o644))
	h, err = loadHotfix(hotfix)
	require.NoError(t, err)
	require.Len(t, h.Data, 1)
	require.Equal(t, "良い", h.Data[0].Word)
}
