package config

import (
	"strings"
	"testing"
	"time"
)

func TestEnforceTLS(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
		ok   bool
	}{
		{
			"missing sslmode rewritten",
			"postgres://user:pw@db.example.com:5432/app",
			"postgres://user:pw@db.example.com:5432/app?sslmode=require",
			true,
		},
		{
			"require kept",
			"postgres://user:pw@db.example.com:5432/app?sslmode=require",
			"postgres://user:pw@db.example.com:5432/app?sslmode=require",
			true,
		},
		{
			"verify-full kept",
			"postgresql://user:pw@db.example.com/app?sslmode=verify-full",
			"postgresql://user:pw@db.example.com/app?sslmode=verify-full",
			true,
		},
		{"disable refused", "postgres://user:pw@db.example.com/app?sslmode=disable", "", false},
		{"prefer refused", "postgres://user:pw@db.example.com/app?sslmode=prefer", "", false},
		{"wrong scheme", "mysql://user:pw@db.example.com/app", "", false},
	}
	for _, tc := range cases {
		got, err := EnforceTLS(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%s: expected %q, got %q (err=%v)", tc.name, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%s: expected error, got %q", tc.name, got)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:         "8080",
			DatabaseURL:  "postgres://user:pw@db.example.com/app?sslmode=require",
			QueryTimeout: 7 * time.Second,
			LogLevel:     "info",
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	t.Run("missing database url", func(t *testing.T) {
		c := valid()
		c.DatabaseURL = ""
		err := c.Validate()
		if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
			t.Fatalf("expected DATABASE_URL error, got %v", err)
		}
	})

	t.Run("plaintext refused", func(t *testing.T) {
		c := valid()
		c.DatabaseURL = "postgres://user:pw@db.example.com/app?sslmode=disable"
		if err := c.Validate(); err == nil {
			t.Fatal("expected validation error for sslmode=disable")
		}
	})

	t.Run("sslmode appended", func(t *testing.T) {
		c := valid()
		c.DatabaseURL = "postgres://user:pw@db.example.com/app"
		if err := c.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(c.DatabaseURL, "sslmode=require") {
			t.Fatalf("expected sslmode=require appended, got %s", c.DatabaseURL)
		}
	})

	t.Run("bad port", func(t *testing.T) {
		c := valid()
		c.Port = "https"
		if err := c.Validate(); err == nil {
			t.Fatal("expected validation error for non-numeric port")
		}
	})

	t.Run("timeout too small", func(t *testing.T) {
		c := valid()
		c.QueryTimeout = 100 * time.Millisecond
		if err := c.Validate(); err == nil {
			t.Fatal("expected validation error for sub-second timeout")
		}
	})
}
