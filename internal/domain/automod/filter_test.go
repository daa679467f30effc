package automod_test

import (
	"testing"

	"github.com/lib/pq"

	"github.com/skinvaults/skinvaults-api/internal/domain/automod"
)

func TestCheckDisabledAllowsEverything(t *testing.T) {
	s := automod.DefaultSettings()
	s.Enabled = false
	s.BannedWords = pq.StringArray{"spam"}

	v := automod.Check("spam spam https://evil.com spam", s)
	if !v.Allowed {
		t.Fatalf("disabled automod must allow everything, got reason %q", v.Reason)
	}
}

func TestCheckBlocksDisallowedLink(t *testing.T) {
	v := automod.Check("check this out https://evil.com/free-skins", automod.DefaultSettings())
	if v.Allowed {
		t.Fatal("expected link to be blocked")
	}
	if v.Reason != automod.ReasonLinks {
		t.Fatalf("expected reason %q, got %q", automod.ReasonLinks, v.Reason)
	}
}

func TestCheckAllowsWhitelistedDomains(t *testing.T) {
	for _, msg := range []string{
		"my trade https://steamcommunity.com/tradeoffer/new/?partner=1",
		"proof https://imgur.com/a/abc123",
		"proof https://i.imgur.com/xyz.png",
		"old link http://www.imgur.com/gallery/q",
	} {
		if v := automod.Check(msg, automod.DefaultSettings()); !v.Allowed {
			t.Fatalf("expected %q to pass, got reason %q", msg, v.Reason)
		}
	}
}

func TestCheckBlocksBareWWWToken(t *testing.T) {
	v := automod.Check("visit www.evil.com now", automod.DefaultSettings())
	if v.Allowed {
		t.Fatal("expected bare www link to be blocked")
	}
	if v.Reason != automod.ReasonLinks {
		t.Fatalf("expected reason %q, got %q", automod.ReasonLinks, v.Reason)
	}
}

func TestCheckSuffixMatchRequiresDomainBoundary(t *testing.T) {
	// notimgur.com must not ride on the imgur.com allowance.
	v := automod.Check("https://notimgur.com/a", automod.DefaultSettings())
	if v.Allowed {
		t.Fatal("expected lookalike domain to be blocked")
	}
}

func TestCheckBannedWordCaseInsensitive(t *testing.T) {
	s := automod.DefaultSettings()
	s.BannedWords = pq.StringArray{"spam"}

	v := automod.Check("this is SPAM friends", s)
	if v.Allowed {
		t.Fatal("expected banned word to be blocked")
	}
	if v.Reason != automod.ReasonWord {
		t.Fatalf("expected reason %q, got %q", automod.ReasonWord, v.Reason)
	}
}

func TestCheckLinkVerdictWinsOverWord(t *testing.T) {
	s := automod.DefaultSettings()
	s.BannedWords = pq.StringArray{"spam"}

	v := automod.Check("spam at https://evil.com", s)
	if v.Allowed {
		t.Fatal("expected message to be blocked")
	}
	if v.Reason != automod.ReasonLinks {
		t.Fatalf("links are checked first, expected %q, got %q", automod.ReasonLinks, v.Reason)
	}
}

func TestCheckBannedPattern(t *testing.T) {
	s := automod.DefaultSettings()
	s.BannedRegex = pq.StringArray{`free\s+skins?`}

	v := automod.Check("get your FREE  SKINS here", s)
	if v.Allowed {
		t.Fatal("expected pattern match to be blocked")
	}
	if v.Reason != automod.ReasonPattern {
		t.Fatalf("expected reason %q, got %q", automod.ReasonPattern, v.Reason)
	}
}

func TestCheckMalformedPatternIsSkipped(t *testing.T) {
	s := automod.DefaultSettings()
	s.BannedRegex = pq.StringArray{`[unclosed`, `giveaway`}

	if v := automod.Check("hello there", s); !v.Allowed {
		t.Fatalf("malformed pattern must not block clean messages, got %q", v.Reason)
	}

	// A valid pattern after the malformed one still applies.
	v := automod.Check("huge giveaway tonight", s)
	if v.Allowed || v.Reason != automod.ReasonPattern {
		t.Fatalf("expected later valid pattern to fire, got allowed=%v reason=%q", v.Allowed, v.Reason)
	}
}

func TestCheckCleanMessageAllowed(t *testing.T) {
	s := automod.DefaultSettings()
	s.BannedWords = pq.StringArray{"spam"}
	s.BannedRegex = pq.StringArray{`free\s+skins`}

	if v := automod.Check("anyone up for a match?", s); !v.Allowed {
		t.Fatalf("expected clean message to pass, got %q", v.Reason)
	}
}
