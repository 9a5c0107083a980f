package simcard

import "fmt"

// MSISDNCommand is the record read the static table answers with a number
// derived from the card's port and instance.
const MSISDNCommand = "+CRSM=178,28480,1,4,32"

// msisdnTemplate is an EF_MSISDN record whose swapped BCD number is
// "155552", the 1-based instance, then the four port digits: instance 0 on
// port 5554 owns 15555215554.
const msisdnTemplate = "ffffffffffffffffffffffffffffffffffff0781515525%d%d%d%df%dffffffffffff"

type staticAnswer struct {
	command string
	answer  string
}

// staticAnswers is matched in order against the whole request text.
var staticAnswers = []staticAnswer{
	// CPHS operator name (6F14)
	{"+CRSM=192,28436,0,0,15", "+CRSM: 144,0,000000146f1404001aa0aa01020000"},
	{"+CRSM=176,28436,0,0,20", "+CRSM: 144,0,416e64726f6964ffffffffffffffffffffffffff"},

	// CPHS voice message waiting (6F11)
	{"+CRSM=192,28433,0,0,15", "+CRSM: 144,0,000000016f11040011a0aa01020000"},
	{"+CRSM=176,28433,0,0,1", "+CRSM: 144,0,55"},

	// ICCID (2FE2)
	{"+CRSM=192,12258,0,0,15", "+CRSM: 144,0,0000000a2fe204000fa0aa01020000"},
	{"+CRSM=176,12258,0,0,10", "+CRSM: 144,0,98101430121181157002"},

	// CPHS call forwarding (6F13)
	{"+CRSM=192,28435,0,0,15", "+CRSM: 144,0,000000016f13040011a0aa01020000"},
	{"+CRSM=176,28435,0,0,1", "+CRSM: 144,0,55"},

	// SIM service table (6F38)
	{"+CRSM=192,28472,0,0,15", "+CRSM: 144,0,0000000f6f3804001aa0aa01020000"},
	{"+CRSM=176,28472,0,0,15", "+CRSM: 144,0,ff30ffff3f003c0f000c0000f0ff00"},

	// Mailbox identifier (6FC9)
	{"+CRSM=192,28617,0,0,15", "+CRSM: 144,0,000000086fc9040011a0aa01020104"},
	{"+CRSM=178,28617,1,4,4", "+CRSM: 144,0,01000000"},

	// Message waiting indication status (6FCA)
	{"+CRSM=192,28618,0,0,15", "+CRSM: 144,0,0000000a6fca040011a0aa01020105"},
	{"+CRSM=178,28618,1,4,5", "+CRSM: 144,0,0000000000"},

	// Administrative data (6FAD)
	{"+CRSM=192,28589,0,0,15", "+CRSM: 144,0,000000046fad04000aa0aa01020000"},
	{"+CRSM=176,28589,0,0,4", "+CRSM: 144,0,00000003"},

	// Image (4F20)
	{"+CRSM=192,20256,1,4,10", "+CRSM: 144,0,000000644f20040000000005020114"},
	{"+CRSM=178,20256,1,4,20", "+CRSM: 144,0,010808214f0200000016ffffffffffffffffffff"},

	// Image instance (4F02)
	{"+CRSM=176,20226,0,0,22", "+CRSM: 144,0,080802030016AAAA800285428142814281528002AAAAFF000000FF000000FF"},
	{"+CRSM=176,20226,0,22,9", "+CRSM: 144,0,0808ff03a59999a5c3ff"},

	// CPHS information (6F16)
	{"+CRSM=192,28438,0,0,15", "+CRSM: 144,0,000000026f1604001aa0aa01020000"},
	{"+CRSM=176,28438,0,0,2", "+CRSM: 144,0,0233"},

	// Service provider name (6F46)
	{"+CRSM=192,28486,0,0,15", "+CRSM: 144,0,000000116f4604000aa0aa01020000"},
	{"+CRSM=176,28486,0,0,17", "+CRSM: 144,0,01416e64726f6964ffffffffffffffffff"},

	// Service provider display information (6FCD)
	{"+CRSM=192,28621,0,0,15", "+CRSM: 144,0,0000000d6fcd04000aa0aa01020000"},
	{"+CRSM=176,28621,0,0,13", "+CRSM: 144,0,a30b800932643164269fffffff"},

	// PLMN network name (6FC5)
	{"+CRSM=192,28613,0,0,15", "+CRSM: 144,0,000000f06fc504000aa0aa01020118"},
	{"+CRSM=178,28613,1,4,24", "+CRSM: 144,0,43058441aa890affffffffffffffffffffffffffffffffff"},

	// MSISDN (6F40)
	{"+CRSM=192,28480,0,0,15", "+CRSM: 144,0,000000806f40040011a0aa01020120"},
	{"+CRSM=178,28480,1,4,32", "+CRSM: 144,0,ffffffffffffffffffffffffffffffffffff07815155258131f5ffffffffffff"},

	// Mailbox dialling numbers (6FC7)
	{"+CRSM=192,28615,0,0,15", "+CRSM: 144,0,000000406fc7040011a0aa01020120"},
	{"+CRSM=178,28615,1,4,32", "+CRSM: 144,0,566f6963656d61696cffffffffffffffffff07915155125740f9ffffffffffff"},

	// Abbreviated dialling numbers (6F3A)
	{"+CRSM=192,28474,0,0,15", "+CRSM: 144,0,000000806f3a040011a0aa01020120"},
	{"+CRSM=178,28474,1,4,32", "+CRSM: 144,0,4d6f7a696c6c61ffffffffffffffffffffff07815155258102f1ffffffffffff"},
	{"+CRSM=178,28474,2,4,32", "+CRSM: 144,0,800053006100df00ea9ec3ffffffffffffff07815155258102f2ffffffffffff"},
	{"+CRSM=178,28474,3,4,32", "+CRSM: 144,0,8106e04669726520ebffffffffffffffffff07815155258102f3ffffffffffff"},
	{"+CRSM=178,28474,4,4,32", "+CRSM: 144,0,82079e804875616e6720c3ffffffffffffff07815155258102f4ffffffffffff"},

	// Cell broadcast message identifiers (6F45)
	{"+CRSM=192,28485,0,0,15", "+CRSM: 144,0,000000066f4504000fa0aa01020000"},
	{"+CRSM=176,28485,0,0,6", "+CRSM: 144,0,b000fffff000"},

	// Cell broadcast message identifier ranges (6F50)
	{"+CRSM=192,28496,0,0,15", "+CRSM: 144,0,000000106f5004000fa0aa01020000"},
	{"+CRSM=176,28496,0,0,16", "+CRSM: 144,0,b002c000ffffc001c001fffff002ff00"},
}

// MSISDN returns the own-number record payload for a card.
func MSISDN(port, instance int) string {
	return fmt.Sprintf(msisdnTemplate,
		(port/1000)%10,
		instance+1,
		(port/10)%10,
		(port/100)%10,
		port%10)
}

func (c *Card) answerStatic(text string) Response {
	if text == MSISDNCommand {
		return success(MSISDN(c.port, c.instance))
	}

	for _, a := range staticAnswers {
		if a.command != text {
			continue
		}
		resp, err := ParseResponse(a.answer)
		if err != nil {
			c.log.WithError(err).Debug("bad static answer")
			return RespExecutionError
		}
		return resp
	}

	c.log.WithField("command", text).Debug("no static answer")
	return RespIncorrectParameters
}

// StaticCommands lists the requests the built-in table answers, in table
// order.
func StaticCommands() []string {
	out := make([]string, 0, len(staticAnswers))
	for _, a := range staticAnswers {
		out = append(out, a.command)
	}
	return out
}
