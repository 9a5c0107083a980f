/*
Package iso7816 implements the data structures a SIM (GSM 11.11 / TS 51.011) card speaks on top of ISO/IEC 7816.

It provides Command and Response APDUs, Status Word (SW) analysis with the decimal rendering used by the
"+CRSM" AT command, the SIM command builders (SELECT, READ BINARY, READ RECORD, GET RESPONSE, VERIFY CHV,
UNBLOCK CHV) and a Client that drives a Transmitter while handling the transport-level status words.

# Fundamentals

The communication with a smart card is strictly synchronous:
 1. The Host sends a Command APDU (Header + Optional Body).
 2. The Card processes it and returns a Response APDU (Optional Body + Trailer SW1/SW2).

# Status Words

Every response ends with a 2-byte Status Word (SW).
  - 0x9000: Success (OK).
  - 0x9FXX: Success, XX bytes of response data wait for GET RESPONSE (GSM).
  - 0x61XX: Success, XX bytes of response data wait for GET RESPONSE (ISO).
  - 0x6CXX: Error, wrong length expectation (XX is the correct length).
  - Other: Various error conditions.

The "+CRSM" command reports the status word as two decimal numbers, so 0x9000 becomes "144,0" and
0x6A82 (file not found) becomes "106,130". See StatusWord.CRSM.

# Usage Example: Reading a transparent file

	client := iso7816.NewClient(card)

	trace, err := client.Send(iso7816.Select(iso7816.ClassGSM, 0x2FE2))
	if err != nil {
	    log.Fatal(err)
	}

	trace, err = client.Send(iso7816.ReadBinary(iso7816.ClassGSM, 0, 10))
	if err != nil {
	    log.Fatal(err)
	}

	fmt.Println(iso7816.Describe(trace))
*/
package iso7816
