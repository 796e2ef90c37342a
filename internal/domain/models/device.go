package models

import "time"

// Capability names a device capability the capture workflow depends on.
type Capability string

const (
	CapabilityCamera       Capability = "camera"
	CapabilityFineLocation Capability = "fine_location"
	CapabilityStorageRead  Capability = "storage_read"
)

// RequiredCapabilities is the batch requested at session bootstrap.
var RequiredCapabilities = []Capability{
	CapabilityCamera,
	CapabilityFineLocation,
	CapabilityStorageRead,
}

// PermissionStatus is the outcome of a single capability request.
type PermissionStatus string

const (
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
)

// Platform identifies the host operating system of the capture device.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

// Symbology is a barcode format the decoder can report.
type Symbology string

const (
	SymbologyQR              Symbology = "qr"
	SymbologyPDF417          Symbology = "pdf417"
	SymbologyAztec           Symbology = "aztec"
	SymbologyCode128         Symbology = "code128"
	SymbologyCode39          Symbology = "code39"
	SymbologyCode93          Symbology = "code93"
	SymbologyEAN13           Symbology = "ean13"
	SymbologyEAN8            Symbology = "ean8"
	SymbologyInterleaved2of5 Symbology = "interleaved2of5"
	SymbologyITF14           Symbology = "itf14"
	SymbologyUPCE            Symbology = "upce"
)

// SupportedSymbologies lists every format the scanner is configured to decode.
var SupportedSymbologies = []Symbology{
	SymbologyQR,
	SymbologyPDF417,
	SymbologyAztec,
	SymbologyCode128,
	SymbologyCode39,
	SymbologyCode93,
	SymbologyEAN13,
	SymbologyEAN8,
	SymbologyInterleaved2of5,
	SymbologyITF14,
	SymbologyUPCE,
}

// Supported reports whether the decoder is configured for the symbology.
func (s Symbology) Supported() bool {
	for _, candidate := range SupportedSymbologies {
		if candidate == s {
			return true
		}
	}
	return false
}

// DecodeEvent is emitted by the camera when it reads a code.
type DecodeEvent struct {
	Payload   string    `json:"payload"`
	Symbology Symbology `json:"symbology"`
}

// ScannerSettings configures the live camera view.
type ScannerSettings struct {
	Symbologies []Symbology
	Facing      string
	Torch       bool
}

// Position is a device location fix.
type Position struct {
	Latitude  float64
	Longitude float64
}

// MediaType restricts what the photo picker offers.
type MediaType string

const MediaTypeImages MediaType = "images"

// PickerOptions configures the photo library picker.
type PickerOptions struct {
	MediaTypes    MediaType
	AllowsEditing bool
	AspectX       int
	AspectY       int
	Quality       float64
}

// PickedAsset is one item returned by the picker.
type PickedAsset struct {
	URI string
}

// PickResult is what the picker hands back; Cancelled results carry no assets.
type PickResult struct {
	Cancelled bool
	Assets    []PickedAsset
}

// HapticPulse is the vibration emitted on a successful decode.
const HapticPulse = 50 * time.Millisecond
