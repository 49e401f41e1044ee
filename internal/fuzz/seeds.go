package fuzztests

import "testing"

const maxSeedBytes = 64 << 10 // 64 KiB — ограничение для входа фаззера

// textSeeds covers every line-ending style, astral characters and empty lines.
var textSeeds = []string{
	"",
	"abc",
	"a\nb",
	"a\r\nb\r\n",
	"a\rb\rc",
	"\r\n\r\n",
	"\n\r",
	"🙂x\n🙂",
	"café\nnaïve",
	"\x00\xff\xfe",
	"mixed\r\nend\rings\n\n",
}

func addTextSeeds(f *testing.F) {
	for _, s := range textSeeds {
		f.Add([]byte(s))
	}
}

func clip(input []byte) []byte {
	if len(input) > maxSeedBytes {
		input = input[:maxSeedBytes]
	}
	return append([]byte(nil), input...)
}
