package usecase

// FallbackMimeType is sent to the provider when the declared type is not
// one it is known to accept. Browser recorders upload Opus in WebM.
const FallbackMimeType = "audio/webm;codecs=opus"

var supportedMimeTypes = map[string]bool{
	"audio/wav":  true,
	"audio/mpeg": true,
	"audio/webm": true,
	"audio/ogg":  true,
}

// ResolveMimeType returns declared when it is supported, FallbackMimeType otherwise
func ResolveMimeType(declared string) string {
	if supportedMimeTypes[declared] {
		return declared
	}
	return FallbackMimeType
}
