package simcard

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gregLibert/sim-card/pkg/iso7816"
)

const responsePrefix = "+CRSM: "

// Response is the answer to a +CRSM command: a status word and, on success,
// the hex payload exactly as it goes on the wire.
type Response struct {
	Status  iso7816.StatusWord
	Payload string
}

// Failure responses. Their String forms are the fixed +CRSM literals the
// modem forwards.
var (
	RespExecutionError      = Response{Status: iso7816.SW_ERR_EXEC_NO_INFO}          // +CRSM: 100,0
	RespWrongLength         = Response{Status: iso7816.SW_ERR_WRONG_LENGTH}          // +CRSM: 103,0
	RespFunctionNotSupport  = Response{Status: iso7816.SW_ERR_FUNC_NOT_SUPPORTED}    // +CRSM: 106,129
	RespFileNotFound        = Response{Status: iso7816.SW_ERR_FILE_NOT_FOUND}        // +CRSM: 106,130
	RespRecordNotFound      = Response{Status: iso7816.SW_ERR_RECORD_NOT_FOUND}      // +CRSM: 106,131
	RespIncorrectParameters = Response{Status: iso7816.SW_ERR_INCORRECT_PARAMS_P1P2} // +CRSM: 106,134
)

func success(payload string) Response {
	return Response{Status: iso7816.SW_NO_ERROR, Payload: payload}
}

// String renders the response as "+CRSM: <sw1>,<sw2>[,<payload>]". A
// success always carries the payload separator, even when it is empty.
func (r Response) String() string {
	if r.Payload == "" && !r.IsSuccess() {
		return responsePrefix + r.Status.CRSM()
	}
	return responsePrefix + r.Status.CRSM() + "," + r.Payload
}

// IsSuccess reports whether the status word is 90 00.
func (r Response) IsSuccess() bool { return r.Status == iso7816.SW_NO_ERROR }

// Data decodes the payload. Upper and lower case hex are both accepted.
func (r Response) Data() ([]byte, error) {
	return hex.DecodeString(r.Payload)
}

// ParseResponse is the inverse of Response.String.
func ParseResponse(text string) (Response, error) {
	body, ok := strings.CutPrefix(text, responsePrefix)
	if !ok {
		return Response{}, fmt.Errorf("invalid response %q: missing %q", text, responsePrefix)
	}

	parts := strings.SplitN(body, ",", 3)
	if len(parts) < 2 {
		return Response{}, fmt.Errorf("invalid response %q: missing status word", text)
	}

	sw, err := iso7816.ParseCRSMStatus(parts[0] + "," + parts[1])
	if err != nil {
		return Response{}, fmt.Errorf("invalid response %q: %w", text, err)
	}

	resp := Response{Status: sw}
	if len(parts) == 3 {
		resp.Payload = parts[2]
	}
	return resp, nil
}
