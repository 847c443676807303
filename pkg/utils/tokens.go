package utils

import "github.com/pkoukk/tiktoken-go"

// CountTokens estimates prompt length for completion budget sizing.
func CountTokens(text string) (int, error) {
	tkm, err := tiktoken.EncodingForModel("gpt-4o")
	if err != nil {
		return 0, err
	}
	return len(tkm.Encode(text, nil, nil)), nil
}
