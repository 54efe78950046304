package oled

// command is a controller opcode. The controller accepts these on the
// command channel (I²C control byte 0x00, SPI with the DC line low); several
// take argument bytes sent the same way.
type command byte

// Controller command set, per the SSD1306/SH1106 command tables.
const (
	setLowColumn          command = 0x00 // low nibble of the column start address (page mode)
	setHighColumn         command = 0x10 // high nibble of the column start address (page mode)
	setMemoryMode         command = 0x20
	setColumnAddr         command = 0x21
	setPageAddr           command = 0x22
	scrollRight           command = 0x26
	scrollLeft            command = 0x27
	scrollVerticalRight   command = 0x29
	scrollVerticalLeft    command = 0x2A
	deactivateScroll      command = 0x2E
	activateScroll        command = 0x2F
	setStartLine          command = 0x40
	setContrast           command = 0x81
	setChargePump         command = 0x8D
	setRemap              command = 0xA0
	setSegmentRemap       command = 0xA1
	setVerticalScrollArea command = 0xA3
	setDisplayAllOnResume command = 0xA4
	setDisplayAllOn       command = 0xA5
	setNormalDisplay      command = 0xA6
	setInvertDisplay      command = 0xA7
	setMultiplexRatio     command = 0xA8
	setDisplayOff         command = 0xAE
	setDisplayOn          command = 0xAF
	setPageStart          command = 0xB0 // ORed with the page number
	setComScanInc         command = 0xC0
	setComScanDec         command = 0xC8
	setDisplayOffset      command = 0xD3
	setDisplayClockDiv    command = 0xD5
	setPrecharge          command = 0xD9
	setComPins            command = 0xDA
	setVComDetect         command = 0xDB
)
