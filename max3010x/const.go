package max3010x

// Register addresses
const (
	IntStat1         = 0x00
	IntStat2         = 0x01
	IntEna1          = 0x02
	IntEna2          = 0x03
	FIFOWrPtr        = 0x04
	OvfCount         = 0x05
	FIFORdPtr        = 0x06
	FIFOData         = 0x07
	FIFOCfg          = 0x08
	ModeCfg          = 0x09
	SpO2Cfg          = 0x0A
	Led1PA           = 0x0C
	Led2PA           = 0x0D
	Led3PA           = 0x0E
	ProxLedPA        = 0x10
	MultiLedModeS2S1 = 0x11
	MultiLedModeS4S3 = 0x12
	TempInt          = 0x1F
	TempFrac         = 0x20
	TempCfg          = 0x21
	ProxIntThresh    = 0x30
	RegRevID         = 0xFE
	RegPartID        = 0xFF
)

// Interrupt flags
const (
	// Status 1
	AlmostFull            byte = (1 << 7)
	NewFIFOData           byte = (1 << 6)
	AmbientLightCancelOvf byte = (1 << 5)
	Proximity             byte = (1 << 4)
	PowerReady            byte = (1 << 0)

	// Status 2
	DieTempReady byte = (1 << 1)
)

// Device constants
const (
	Addr   = 0x57
	PartID = 0x15
)

// The hardware FIFO holds 32 samples addressed by 5-bit pointers. Each
// active LED channel adds three bytes per sample, of which only the low
// 18 bits carry ADC counts.
const (
	fifoSize   = 32
	chanBytes  = 3
	sampleMask = 0x3FFFF
)

// Defaults
const (
	defaultTransfer = 32
	defaultStorage  = 4
)

// Settings
const (
	TempEna      byte = 0b0000_0001
	ModeHR       byte = 0b010
	ModeSpO2     byte = 0b011
	ModeMultiLed byte = 0b111
	modeMask     byte = 0b1111_1000

	ResetControl byte = 0b0100_0000
	modeSHDN     byte = 0b1000_0000
	shdnMask     byte = 0b0111_1111
)

// FIFO Sample Averaging
const (
	Avg1 = (iota << 5)
	Avg2
	Avg4
	Avg8
	Avg16
	Avg32

	avgMask      byte = 0b000_1_1111
	rolloverEna  byte = 0b000_1_0000
	rolloverMask byte = 0b111_0_1111
	fifoFullMask byte = 0b1111_0000
)

// SpO2 ADC Range Control
const (
	ADC2048 = (iota << 5)
	ADC4096
	ADC8192
	ADC16384

	adcMask byte = 0b1_00_111_11
)

// SpO2 Sample Rate Control
const (
	SR50 = (iota << 2)
	SR100
	SR200
	SR400
	SR800
	SR1000
	SR1600
	SR3200

	srMask byte = 0b1_11_000_11
)

// LED Pulse Width Control
const (
	PW69 = iota
	PW118
	PW215
	PW411

	pwMask byte = 0b1_11_111_00
)

// Multi-LED slot assignments
const (
	SlotNone = iota
	SlotRed
	SlotIR
	SlotGreen

	slotLowMask  byte = 0b1_111_1_000 // slots 1 and 3
	slotHighMask byte = 0b1_000_1_111 // slots 2 and 4
)
