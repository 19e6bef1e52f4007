package textproc

import (
	"reflect"
	"testing"
)

func TestNormalizePipeline(t *testing.T) {
	plain := NewNormalizer(Options{})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "urls and mentions are stripped",
			input: "Halo @provider cek https://t.co/abc123 dulu",
			want:  "halo cek dulu",
		},
		{
			name:  "www urls are stripped too",
			input: "info di www.example.com ya",
			want:  "info di ya",
		},
		{
			name:  "hashtags split at camel case boundaries",
			input: "#InternetCepat memang beda",
			want:  "internet cepat memang beda",
		},
		{
			name:  "repeated runes collapse to two",
			input: "mantaaaap sekaliiii",
			want:  "mantaap sekalii",
		},
		{
			name:  "three repeats are kept as-is",
			input: "yeee",
			want:  "yeee",
		},
		{
			name:  "symbols become spaces",
			input: "keren!!! (beneran)",
			want:  "keren beneran",
		},
		{
			name:  "whitespace collapses",
			input: "  terlalu   banyak \t spasi \n di sini ",
			want:  "terlalu banyak spasi di sini",
		},
		{
			name:  "empty input stays empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plain.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmojiMap(t *testing.T) {
	n := NewNormalizer(Options{
		EmojiMap: map[string]string{"👍": "bagus"},
	})

	if got := n.Normalize("sinyal 👍 banget"); got != "sinyal bagus banget" {
		t.Errorf("Normalize = %q, want %q", got, "sinyal bagus banget")
	}

	// Unmapped emoji are swept by the range pattern instead.
	if got := n.Normalize("oke 🚀 jalan"); got != "oke jalan" {
		t.Errorf("Normalize = %q, want %q", got, "oke jalan")
	}
}

func TestNormalizeStopwordsAndLength(t *testing.T) {
	n := ForSentiment()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "stopwords dropped",
			input: "saya sangat suka layanan ini",
			want:  "suka layanan",
		},
		{
			name:  "short tokens dropped",
			input: "di tv ada film bagus",
			want:  "film bagus", // "ada" is a stopword, "di"/"tv" too short
		},
		{
			name:  "all tokens filtered yields empty",
			input: "ya ok",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := ForSentiment()
	inputs := []string{
		"Jaringan lemooooot banget hari ini!!! @provider #InternetMati https://t.co/xyz",
		"pelayanan bagus, terima kasih 🙏",
		"",
	}
	for _, input := range inputs {
		once := n.Normalize(input)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestWordFrequency(t *testing.T) {
	texts := []string{
		"jaringan lambat jaringan",
		"jaringan lambat sinyal",
		"abc abcd",
	}

	got := WordFrequency(texts, 3, 0)
	want := []WordFreq{
		{Word: "jaringan", Count: 3},
		{Word: "lambat", Count: 2},
		{Word: "sinyal", Count: 1},
		{Word: "abcd", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WordFrequency = %v, want %v", got, want)
	}
}

func TestWordFrequencyMinLenIsExclusive(t *testing.T) {
	// Tokens must be strictly longer than minLen.
	got := WordFrequency([]string{"abc abcd"}, 3, 0)
	if len(got) != 1 || got[0].Word != "abcd" {
		t.Errorf("WordFrequency = %v, want only \"abcd\"", got)
	}
}

func TestWordFrequencyTiesKeepFirstSeen(t *testing.T) {
	got := WordFrequency([]string{"kedua pertama", "pertama kedua"}, 3, 2)
	if len(got) != 2 {
		t.Fatalf("WordFrequency returned %d entries, want 2", len(got))
	}
	if got[0].Word != "kedua" || got[1].Word != "pertama" {
		t.Errorf("tie order = [%s %s], want first-seen [kedua pertama]", got[0].Word, got[1].Word)
	}
}

func TestWordFrequencyLimit(t *testing.T) {
	got := WordFrequency([]string{"satu satu dua dua tiga"}, 2, 1)
	if len(got) != 1 {
		t.Fatalf("WordFrequency returned %d entries, want 1", len(got))
	}
	if got[0].Word != "satu" || got[0].Count != 2 {
		t.Errorf("top entry = %v, want {satu 2}", got[0])
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name         string
		count, total int
		want         float64
	}{
		{name: "exact", count: 6, total: 10, want: 60},
		{name: "rounds to two decimals", count: 1, total: 3, want: 33.33},
		{name: "rounds up", count: 2, total: 3, want: 66.67},
		{name: "zero total is zero not NaN", count: 5, total: 0, want: 0},
		{name: "zero count", count: 0, total: 7, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.count, tt.total); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.count, tt.total, got, tt.want)
			}
		})
	}
}
