package cdrom

// SubMode is the submode flag byte of the XA subheader. It describes how a
// sector participates in a multiplexed stream.
type SubMode uint8

// Submode flags, LSB first.
const (
	SubModeEndOfRecord SubMode = 1 << iota
	SubModeVideo
	SubModeAudio
	SubModeData
	SubModeTrigger
	SubModeForm2
	SubModeRealTime
	SubModeEndOfFile
)

// EndOfRecord reports whether the end-of-record flag is set.
func (m SubMode) EndOfRecord() bool { return m&SubModeEndOfRecord != 0 }

// Video reports whether the sector carries video data.
func (m SubMode) Video() bool { return m&SubModeVideo != 0 }

// Audio reports whether the sector carries audio data.
func (m SubMode) Audio() bool { return m&SubModeAudio != 0 }

// Data reports whether the sector carries plain data.
func (m SubMode) Data() bool { return m&SubModeData != 0 }

// Trigger reports whether the trigger flag is set.
func (m SubMode) Trigger() bool { return m&SubModeTrigger != 0 }

// Form returns 0 for Form 1 sectors and 1 for Form 2 sectors.
func (m SubMode) Form() uint8 {
	if m&SubModeForm2 != 0 {
		return 1
	}
	return 0
}

// RealTime reports whether the real-time flag is set.
func (m SubMode) RealTime() bool { return m&SubModeRealTime != 0 }

// EndOfFile reports whether the end-of-file flag is set.
func (m SubMode) EndOfFile() bool { return m&SubModeEndOfFile != 0 }

// validate rejects submodes claiming more than one content type.
func (m SubMode) validate() error {
	set := 0
	for _, flag := range []SubMode{SubModeVideo, SubModeAudio, SubModeData} {
		if m&flag != 0 {
			set++
		}
	}
	if set > 1 {
		return ErrSubModeAmbiguous
	}
	return nil
}
