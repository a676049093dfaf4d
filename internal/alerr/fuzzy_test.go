package alerr

import "testing"

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"string", "srting", 2},
		{"integer", "integar", 1},
		{"boolean", "boolen", 1},
		{"ab", "ba", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := editDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestClosestMatch(t *testing.T) {
	kinds := []string{
		"pk_auto", "string", "text", "integer", "big_integer", "decimal",
		"boolean", "date", "time", "timestamp_tz", "uuid", "json", "enum",
	}

	tests := []struct {
		input   string
		wantOk  bool
		wantVal string
	}{
		{"integar", true, "integer"},
		{"srting", true, "string"},
		{"boolen", true, "boolean"},
		{"jsn", true, "json"},
		{"pkauto", true, "pk_auto"},
		{"integer", true, "integer"},
		{"completelywrong", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			match, ok := ClosestMatch(tt.input, kinds)
			if ok != tt.wantOk {
				t.Fatalf("ClosestMatch(%q) ok = %v, want %v", tt.input, ok, tt.wantOk)
			}
			if ok && match != tt.wantVal {
				t.Errorf("ClosestMatch(%q) = %q, want %q", tt.input, match, tt.wantVal)
			}
		})
	}

	if _, ok := ClosestMatch("text", nil); ok {
		t.Error("expected no match with empty options")
	}
}

func TestDidYouMean(t *testing.T) {
	options := []string{"users", "posts", "comments"}

	if got, want := DidYouMean("usrs", options), "did you mean 'users'?"; got != want {
		t.Errorf("DidYouMean(usrs) = %q, want %q", got, want)
	}
	if got := DidYouMean("xyzzyxq", options); got != "" {
		t.Errorf("DidYouMean(xyzzyxq) = %q, want empty", got)
	}
}
