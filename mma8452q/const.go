package mma8452q

// Register addresses
const (
	Status         = 0x00
	OutXMSB        = 0x01
	OutXLSB        = 0x02
	OutYMSB        = 0x03
	OutYLSB        = 0x04
	OutZMSB        = 0x05
	OutZLSB        = 0x06
	SysMod         = 0x0B
	IntSource      = 0x0C
	WhoAmI         = 0x0D
	XYZDataCfg     = 0x0E
	HPFilterCutoff = 0x0F
	PLStatus       = 0x10
	PLCfg          = 0x11
	PLCount        = 0x12
	PLBFZComp      = 0x13
	PLThs          = 0x14
	FFMTCfg        = 0x15
	FFMTSrc        = 0x16
	FFMTThs        = 0x17
	FFMTCount      = 0x18
	TransientCfg   = 0x1D
	TransientSrc   = 0x1E
	TransientThs   = 0x1F
	TransientCount = 0x20
	PulseCfg       = 0x21
	PulseSrc       = 0x22
	PulseThsX      = 0x23
	PulseThsY      = 0x24
	PulseThsZ      = 0x25
	PulseTmlt      = 0x26
	PulseLtcy      = 0x27
	PulseWind      = 0x28
	ASlpCount      = 0x29
	CtrlReg1       = 0x2A
	CtrlReg2       = 0x2B
	CtrlReg3       = 0x2C
	CtrlReg4       = 0x2D
	CtrlReg5       = 0x2E
	OffX           = 0x2F
	OffY           = 0x30
	OffZ           = 0x31
)

// Device constants
const (
	// Addr is the device address with SA0 tied to ground. Parts with SA0
	// high answer on 0x1D instead.
	Addr  = 0x1C
	DevID = 0x2A
)

// Output Data Rate Control
const (
	ODR800 = iota // 800 Hz
	ODR400
	ODR200
	ODR100
	ODR50
	ODR12 // 12.5 Hz
	ODR6  // 6.25 Hz
	ODR1  // 1.56 Hz

	odrMask byte = 0b1100_0111
)

// Settings
const (
	dataReady  byte = 0b0000_1000
	activeCtl  byte = 0b0000_0001
	activeMask byte = 0b1111_1110
	sysModMask byte = 0b0000_0011

	scaleMask byte = 0b1111_1100

	plEnable   byte = 0b0100_0000
	plDebounce byte = 0x50
	lockoutBit byte = 0b0100_0000
	plMask     byte = 0b0000_0110

	pulseActive byte = 0b1000_0000
	pulseLatch  byte = 0b0100_0000

	// TapDouble is set in the value returned by Tap when the event was a
	// double tap rather than a single one.
	TapDouble byte = 0b0000_1000

	tapXEnable   byte = 0b0000_0011
	tapYEnable   byte = 0b0000_1100
	tapZEnable   byte = 0b0011_0000
	tapDisabled  byte = 0b1000_0000
	tapTimeLimit byte = 0x30
	tapLatency   byte = 0xA0
	tapWindow    byte = 0xFF
)
