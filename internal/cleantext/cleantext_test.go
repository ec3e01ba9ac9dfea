package cleantext

import "testing"

// TestIsClean tests the clean-text filter.
func TestIsClean(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		data     string
		expected bool
	}{
		{
			name:     "plain English text",
			data:     "Yokohama International School offers the IB curriculum.",
			expected: true,
		},
		{
			name:     "Japanese text",
			data:     "横浜インターナショナルスクールは国際バカロレアを提供しています。",
			expected: true,
		},
		{
			name:     "mixed English and Japanese",
			data:     "Admissions (入学案内): applications open in April. お問い合わせください。",
			expected: true,
		},
		{
			name:     "full-width forms",
			data:     "ＴＥＬ：０４５－１２３－４５６７",
			expected: true,
		},
		{
			name:     "tabs and newlines are valid",
			data:     "line one\n\tline two\r\n",
			expected: true,
		},
		{
			name:     "empty is never clean",
			data:     "",
			expected: false,
		},
		{
			name:     "mojibake dominated text",
			data:     "Ã¦Â–Â‡Ã¥Â­Â—Ã¥ÂŒÂ–Ã£ÂÂ‘",
			expected: false,
		},
		{
			name:     "unrelated script dominated text",
			data:     "Это текст на русском языке без перевода",
			expected: false,
		},
		{
			name:     "few stray characters within tolerance",
			data:     "A long enough English sentence with one stray é character in it.",
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := IsClean(tc.data); got != tc.expected {
				t.Errorf("IsClean(%q) = %v, expected %v", tc.data, got, tc.expected)
			}
		})
	}
}

// TestInvalidRatio tests ratio computation and the inclusive threshold.
func TestInvalidRatio(t *testing.T) {
	t.Parallel()

	t.Run("empty input counts as fully invalid", func(t *testing.T) {
		t.Parallel()

		if got := InvalidRatio(""); got != 1 {
			t.Errorf("got %v, expected 1", got)
		}
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		t.Parallel()

		// Ten runes, all Japanese: every one valid despite the
		// multi-byte encoding.
		if got := InvalidRatio("こんにちは世界の学校"); got != 0 {
			t.Errorf("got %v, expected 0", got)
		}
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		t.Parallel()

		// Ten runes with exactly one outside the accepted ranges.
		data := "123456789é"
		if got := InvalidRatio(data); got != 0.1 {
			t.Errorf("got %v, expected 0.1", got)
		}
		if !IsClean(data) {
			t.Error("ratio exactly at the threshold should be clean")
		}
	})

	t.Run("just over the threshold is unclean", func(t *testing.T) {
		t.Parallel()

		// Nine runes with one invalid: ratio 1/9 > 0.1.
		if IsClean("12345678é") {
			t.Error("ratio above the threshold should not be clean")
		}
	})
}
