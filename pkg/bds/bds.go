// Package bds implements the Binary Data Stream format.
//
// A BDS stream carries one three-dimensional float32 array: a 12 byte
// signature, a 52 byte text header naming the element type and the array
// dimensions, then the samples in host byte order. It is meant for piping
// arrays between processes, not for long-term file storage.
package bds

// BDS global constants must never change.
const (
	// Magic is the signature base, modelled on the PNG signature.
	// 0x89 catches 8-bit mangling, CR LF and LF catch line ending
	// translation, 0x1A stops DOS text readers.
	Magic = "\x89BDS\r\n\x1a\n"

	// Version is the ABI version. Any change indicates a breaking format change.
	Version = "0002"

	MagicLen     = len(Magic)
	SignatureLen = MagicLen + len(Version)

	// HeaderLen is the fixed size of the text header, terminator included.
	HeaderLen = 52

	// FrameLen is the offset of the first payload byte.
	FrameLen = SignatureLen + HeaderLen

	// TypeFloat32 is the only supported element type tag.
	TypeFloat32 = "flt"

	// SampleSize is the encoded size of one sample.
	SampleSize = 4

	// LibraryVersion tracks the codec release, not the stream ABI.
	LibraryVersion = "0.20111010"
)

// Stdio is the file name that binds to standard input or output.
const Stdio = "-"

// Info identifies the codec release.
func Info() string {
	return "using io_bds " + LibraryVersion
}
