package finder

import (
	"github.com/Laisky/errors/v2"

	"github.com/dsg/pharmacy-finder/library/pharmacy"
)

const (
	// PromptAddressRequired is shown when an empty address is submitted.
	PromptAddressRequired = "주소를 입력해주세요."
	// PromptPickerNotReady is shown when the picker is opened before it is ready.
	PromptPickerNotReady = "주소 검색 서비스가 로드 중입니다. 잠시만 기다려주세요."
)

var (
	// ErrAddressRequired blocks a submission of an empty or blank address.
	ErrAddressRequired = pharmacy.ErrEmptyAddress
	// ErrPickerNotReady is returned when the picker collaborator is not loaded.
	ErrPickerNotReady = errors.New("address picker is not ready")
)

// Prompt returns the user-facing prompt for a validation error, or "" when
// err must not be shown to the user.
func Prompt(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAddressRequired):
		return PromptAddressRequired
	case errors.Is(err, ErrPickerNotReady):
		return PromptPickerNotReady
	default:
		return ""
	}
}
