package flow

import (
	"fmt"

	"github.com/karalabe/hid"

	"mousewatch/internal/config"
	"mousewatch/internal/log"
)

// OpenReceiver opens the first HID interface matching the receiver's vendor,
// product, usage and usage page.
func OpenReceiver(cfg config.Receiver) (hid.Device, error) {
	infos, err := hid.Enumerate(cfg.VendorID, cfg.ProductID)
	if err != nil {
		return nil, fmt.Errorf("enumerate %04x:%04x: %w", cfg.VendorID, cfg.ProductID, err)
	}
	for _, info := range infos {
		if info.Usage != cfg.Usage || info.UsagePage != cfg.UsagePage {
			continue
		}
		dev, err := info.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", info.Path, err)
		}
		log.Infof("opened receiver %s", info.Path)
		return dev, nil
	}
	return nil, fmt.Errorf("no receiver %04x:%04x with usage %#x/%#x", cfg.VendorID, cfg.ProductID, cfg.UsagePage, cfg.Usage)
}
