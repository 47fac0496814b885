package vmsn

// File format constants.
const (
	FileExtension = ".vmsn"

	Magic      uint32 = 0xBED2BED2
	Version    uint32 = 8
	GroupCount uint32 = 1
	GroupName         = "Snapshot"

	// FirstBlockOffset is the fixed header size: magic, version, group
	// count, group name, first block offset and payload size.
	FirstBlockOffset uint64 = 0x5C

	BlockFlags        byte = 0x3F
	ConfigBlockName        = "cfgFile"
	FirmwareBlockName      = "nvramFile"

	// ConfigPadding is the run of zero bytes following the config text.
	ConfigPadding = 8192

	groupNameSize  = 64
	payloadSizeOff = 0x54
	terminatorSize = 4

	// blockFixedSize is flags + name length + two size fields + two zero bytes.
	blockFixedSize = 1 + 1 + 8 + 8 + 2

	// payloadTrailer is counted in the payload size after the last block.
	payloadTrailer = 2
)

// blockHeaderSize returns the header size of a block named name.
func blockHeaderSize(name string) int {
	return blockFixedSize + len(name)
}

// EncodedSize returns the file size for config text of configLen bytes and
// firmware of firmwareLen bytes.
func EncodedSize(configLen, firmwareLen int) int {
	return int(FirstBlockOffset) + int(payloadSize(configLen, firmwareLen)) - payloadTrailer + terminatorSize
}

// payloadSize is the value of the payload size field.
func payloadSize(configLen, firmwareLen int) uint64 {
	return uint64(blockHeaderSize(ConfigBlockName) + configLen + ConfigPadding +
		blockHeaderSize(FirmwareBlockName) + firmwareLen + payloadTrailer)
}
