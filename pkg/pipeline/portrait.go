package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/webp"

	"ecos/pkg/utils"
)

// portraitRequest doubles as the flight-cache key, so identical concurrent
// portrait requests coalesce into one generation call.
type portraitRequest struct {
	Name        string
	Description string
	Context     string
}

// Portrait runs the portrait stage for one character. It never fails the
// pipeline: on any error it logs and reports ok=false, and the character
// simply keeps no avatar. The returned reference is a WebP data URI.
func (p *Pipeline) Portrait(name, description, sceneContext string) (string, bool) {
	if strings.TrimSpace(description) == "" {
		return "", false
	}
	url, err := p.portraits.Get(portraitRequest{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Context:     strings.TrimSpace(sceneContext),
	})
	if err != nil {
		p.log.Warn("portrait generation failed", "character", name, "err", err)
		return "", false
	}
	return url, true
}

func (p *Pipeline) generatePortrait(req portraitRequest) (string, error) {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.PortraitTimeout)
	defer cancel()

	p.log.Debug("generating portrait", "character", req.Name)

	raw, err := p.gen.GenerateImage(ctx, buildPortraitPrompt(req.Description, req.Context))
	if err != nil {
		return "", err
	}

	data, err := encodeWebP(raw)
	if err != nil {
		return "", err
	}

	if p.cfg.PortraitDir != "" {
		name := utils.SanitizeFilename(req.Name)
		if name == "" {
			name = "unknown"
		}
		path := filepath.Join(p.cfg.PortraitDir, name+".webp")
		if err := os.MkdirAll(p.cfg.PortraitDir, 0755); err == nil {
			if err := os.WriteFile(path, data, 0644); err != nil {
				p.log.Warn("failed to cache portrait", "path", path, "err", err)
			}
		}
	}

	return "data:image/webp;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// encodeWebP re-encodes the provider's image payload (usually PNG) as WebP.
func encodeWebP(raw []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		var err2 error
		img, _, err2 = image.Decode(bytes.NewReader(raw))
		if err2 != nil {
			return nil, fmt.Errorf("failed to decode image (png: %v, generic: %v)", err, err2)
		}
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, webp.Options{Lossless: false, Quality: 95}); err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
