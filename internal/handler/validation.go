package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("cpf", validCPF)
	}
}

// validCPF runs the CPF check-digit algorithm, accepting the number with
// or without punctuation.
func validCPF(fl validator.FieldLevel) bool {
	digits := make([]int, 0, 11)
	for _, r := range fl.Field().String() {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) != 11 {
		return false
	}

	// sequences like 111.111.111-11 pass the check digits but are invalid
	same := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			same = false
			break
		}
	}
	if same {
		return false
	}

	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += digits[i] * (n + 1 - i)
		}
		if sum*10%11%10 != digits[n] {
			return false
		}
	}
	return true
}
