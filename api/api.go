package api

// FeatureBrightness is the VESA VCP code for luminance.
const FeatureBrightness byte = 0x10

// DisplayInfo describes a display for diagnostic output.
type DisplayInfo struct {
	Model   string
	Backend string
}

type Display interface {
	Info() DisplayInfo
	GetVCPFeature(code byte) (uint16, error)
	SetVCPFeature(code byte, value uint16) error
}
