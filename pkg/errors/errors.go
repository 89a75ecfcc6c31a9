// SPDX-License-Identifier: Apache-2.0

// Package errors provides the typed error families returned across the
// library boundary. Errors are values, never panics: lower-layer failures
// are wrapped into the nearest enclosing family so the host only ever sees
// a stable set of codes.
package errors

import "fmt"

// KeyCode identifies a key-management error kind.
type KeyCode string

const (
	KeyInvalidKeypair  KeyCode = "INVALID_KEYPAIR"
	KeyInvalidMnemonic KeyCode = "INVALID_MNEMONIC"
	KeyDerivationPath  KeyCode = "DERIVATION_PATH"
	KeyPrivateKey      KeyCode = "PRIVATE_KEY"
	KeyPublicKey       KeyCode = "PUBLIC_KEY"
	KeyGeneric         KeyCode = "GENERIC"
)

// KeyError is returned by mnemonic and key derivation operations.
type KeyError struct {
	Code    KeyCode `json:"code"`
	Message string  `json:"message"`
}

func (e *KeyError) Error() string {
	switch e.Code {
	case KeyInvalidKeypair:
		return fmt.Sprintf("Invalid Keypair: %s", e.Message)
	case KeyInvalidMnemonic:
		return fmt.Sprintf("Invalid Mnemonic: %s", e.Message)
	case KeyDerivationPath:
		return fmt.Sprintf("Invalid DerivationPath: %s", e.Message)
	case KeyPrivateKey:
		return fmt.Sprintf("Invalid Private Key: %s", e.Message)
	case KeyPublicKey:
		return fmt.Sprintf("Invalid Public Key: %s", e.Message)
	default:
		return fmt.Sprintf("Something went wrong: %s", e.Message)
	}
}

// InvalidKeypair creates a KeyError with the INVALID_KEYPAIR code.
func InvalidKeypair(message string) *KeyError {
	return &KeyError{Code: KeyInvalidKeypair, Message: message}
}

// InvalidKeypairErr wraps an underlying error as INVALID_KEYPAIR.
func InvalidKeypairErr(err error) *KeyError {
	return InvalidKeypair(err.Error())
}

// InvalidMnemonic creates a KeyError with the INVALID_MNEMONIC code.
func InvalidMnemonic(message string) *KeyError {
	return &KeyError{Code: KeyInvalidMnemonic, Message: message}
}

// DerivationPath creates a KeyError with the DERIVATION_PATH code.
func DerivationPath(message string) *KeyError {
	return &KeyError{Code: KeyDerivationPath, Message: message}
}

// PrivateKey creates a KeyError with the PRIVATE_KEY code.
func PrivateKey(message string) *KeyError {
	return &KeyError{Code: KeyPrivateKey, Message: message}
}

// PublicKey creates a KeyError with the PUBLIC_KEY code.
func PublicKey(message string) *KeyError {
	return &KeyError{Code: KeyPublicKey, Message: message}
}

// KeyGenericError creates a KeyError with the GENERIC code.
func KeyGenericError(message string) *KeyError {
	return &KeyError{Code: KeyGeneric, Message: message}
}

// TxCode identifies a transaction error kind.
type TxCode string

const (
	TxKeyPair           TxCode = "KEY_PAIR"
	TxSignerMissing     TxCode = "SIGNER_MISSING"
	TxMultipleSigners   TxCode = "MULTIPLE_SIGNERS"
	TxPrivateKey        TxCode = "PRIVATE_KEY"
	TxParameters        TxCode = "PARAMETERS"
	TxPublicKey         TxCode = "PUBLIC_KEY"
	TxDecimalConversion TxCode = "DECIMAL_CONVERSION"
	TxParsingFailure    TxCode = "PARSING_FAILURE"
	TxInstructionError  TxCode = "INSTRUCTION_ERROR"
	TxSignMsgError      TxCode = "SIGN_MSG_ERROR"
	TxGeneric           TxCode = "GENERIC"
)

// TransactionError is returned by transaction construction, mutation and
// signing operations.
type TransactionError struct {
	Code    TxCode `json:"code"`
	Message string `json:"message"`
}

func (e *TransactionError) Error() string {
	switch e.Code {
	case TxKeyPair:
		return fmt.Sprintf("Invalid Keypair: %s", e.Message)
	case TxSignerMissing:
		return "Signer Missing"
	case TxMultipleSigners:
		return "Multiple Signers is not currently supported"
	case TxPrivateKey:
		return fmt.Sprintf("Invalid PrivateKey: %s", e.Message)
	case TxParameters:
		return fmt.Sprintf("Invalid Transaction Parameters: %s", e.Message)
	case TxPublicKey:
		return fmt.Sprintf("Invalid PublicKey: %s", e.Message)
	case TxDecimalConversion:
		return fmt.Sprintf("Invalid DecimalConversion %s", e.Message)
	case TxParsingFailure:
		return fmt.Sprintf("Parsing Failure: %s", e.Message)
	case TxInstructionError:
		return fmt.Sprintf("Instruction Error: %s", e.Message)
	case TxSignMsgError:
		return fmt.Sprintf("Sign Message Error: %s", e.Message)
	default:
		return fmt.Sprintf("Generic Error: %s", e.Message)
	}
}

// KeyPair creates a TransactionError with the KEY_PAIR code.
func KeyPair(message string) *TransactionError {
	return &TransactionError{Code: TxKeyPair, Message: message}
}

// KeyPairErr wraps an underlying error as KEY_PAIR.
func KeyPairErr(err error) *TransactionError {
	return KeyPair(err.Error())
}

// SignerMissing creates a TransactionError with the SIGNER_MISSING code.
func SignerMissing() *TransactionError {
	return &TransactionError{Code: TxSignerMissing}
}

// MultipleSigners creates a TransactionError with the MULTIPLE_SIGNERS code.
func MultipleSigners() *TransactionError {
	return &TransactionError{Code: TxMultipleSigners}
}

// TxPrivateKeyError creates a TransactionError with the PRIVATE_KEY code.
func TxPrivateKeyError(message string) *TransactionError {
	return &TransactionError{Code: TxPrivateKey, Message: message}
}

// Parameters creates a TransactionError with the PARAMETERS code.
func Parameters(message string) *TransactionError {
	return &TransactionError{Code: TxParameters, Message: message}
}

// TxPublicKeyError creates a TransactionError with the PUBLIC_KEY code.
func TxPublicKeyError(message string) *TransactionError {
	return &TransactionError{Code: TxPublicKey, Message: message}
}

// TxPublicKeyErr wraps an underlying error as PUBLIC_KEY.
func TxPublicKeyErr(err error) *TransactionError {
	return TxPublicKeyError(err.Error())
}

// DecimalConversion records the value that failed to convert alongside the
// conversion failure.
func DecimalConversion(value, message string) *TransactionError {
	return &TransactionError{
		Code:    TxDecimalConversion,
		Message: fmt.Sprintf("for %s: %s", value, message),
	}
}

// ParsingFailure creates a TransactionError with the PARSING_FAILURE code.
func ParsingFailure(message string) *TransactionError {
	return &TransactionError{Code: TxParsingFailure, Message: message}
}

// ParsingFailureErr wraps an underlying error as PARSING_FAILURE.
func ParsingFailureErr(err error) *TransactionError {
	return ParsingFailure(err.Error())
}

// InstructionError creates a TransactionError with the INSTRUCTION_ERROR code.
func InstructionError(message string) *TransactionError {
	return &TransactionError{Code: TxInstructionError, Message: message}
}

// InstructionErr wraps an underlying error as INSTRUCTION_ERROR.
func InstructionErr(err error) *TransactionError {
	return InstructionError(err.Error())
}

// SignMsgError creates a TransactionError with the SIGN_MSG_ERROR code.
func SignMsgError(message string) *TransactionError {
	return &TransactionError{Code: TxSignMsgError, Message: message}
}

// Generic creates a TransactionError with the GENERIC code.
func Generic(message string) *TransactionError {
	return &TransactionError{Code: TxGeneric, Message: message}
}

// GenericErr wraps an underlying error as GENERIC.
func GenericErr(err error) *TransactionError {
	return Generic(err.Error())
}
