package pax

import "testing"

func TestAssetLoaderResolvesRelativePaths(t *testing.T) {
	a := NewAssetLoader("assets")
	if got := a.Resolve("sprite.png"); got != "assets/sprite.png" {
		t.Errorf("Resolve(sprite.png) = %v, want assets/sprite.png", got)
	}
	if got := a.Resolve("/abs/sprite.png"); got != "/abs/sprite.png" {
		t.Errorf("Resolve(abs) = %v, want unchanged absolute path", got)
	}
}

func TestAssetLoaderImageLoadedLifecycle(t *testing.T) {
	a := NewAssetLoader("assets")
	if a.ImageLoaded("sprite.png") {
		t.Fatal("expected sprite.png to start unloaded")
	}
	a.RequestImage("sprite.png")
	if a.ImageLoaded("sprite.png") {
		t.Fatal("expected a pending request to not count as loaded")
	}
	a.MarkLoaded("sprite.png")
	if !a.ImageLoaded("sprite.png") {
		t.Fatal("expected sprite.png to be loaded after MarkLoaded")
	}
}

func TestAssetLoaderFontLookupFailsUntilRegistered(t *testing.T) {
	a := NewAssetLoader("assets")
	if _, err := a.Font("Inter"); err == nil {
		t.Fatal("expected an error for an unregistered font family")
	}
}
