package domain

import "strings"

// DevicePreset is a named viewport known to the service.
type DevicePreset struct {
	Name       string
	Resolution string
}

// DeviceGroup is the family a preset is listed under.
type DeviceGroup string

const (
	DeviceGroupDesktop DeviceGroup = "Desktop"
	DeviceGroupTablet  DeviceGroup = "Tablet"
	DeviceGroupMobile  DeviceGroup = "Mobile"
)

var devicePresets = []DevicePreset{
	{"Desktop HD", "1920x1080"},
	{"Desktop", "1440x900"},
	{"Laptop", "1366x768"},
	{"Tablet Landscape", "1024x768"},
	{"Tablet Portrait", "768x1024"},
	{"iPhone 14 Pro Max", "430x932"},
	{"iPhone 14 Pro", "393x852"},
	{"iPhone 14", "390x844"},
	{"iPhone SE", "375x667"},
	{"iPad Pro 12.9", "1024x1366"},
	{"iPad Pro 11", "834x1194"},
	{"iPad", "820x1180"},
	{"iPad Mini", "744x1133"},
	{"Android Large", "412x915"},
	{"Android Medium", "393x873"},
	{"Android Small", "360x800"},
}

// DevicePresets returns a copy of the known presets in display order.
func DevicePresets() []DevicePreset {
	out := make([]DevicePreset, len(devicePresets))
	copy(out, devicePresets)
	return out
}

// Group classifies the preset by name.
func (d DevicePreset) Group() DeviceGroup {
	switch {
	case strings.HasPrefix(d.Name, "Tablet"), strings.HasPrefix(d.Name, "iPad"):
		return DeviceGroupTablet
	case strings.HasPrefix(d.Name, "iPhone"), strings.HasPrefix(d.Name, "Android"):
		return DeviceGroupMobile
	default:
		return DeviceGroupDesktop
	}
}
