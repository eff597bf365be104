package gateway

import (
	"context"
	"fmt"

	"guidewizard/models"
)

const (
	userTypeGuide = "guide"
	purposeLogin  = "login"
)

type otpGenerateRequest struct {
	AreaCode    string `json:"area_code"`
	PhoneNumber string `json:"phone_number"`
	UserType    string `json:"user_type"`
	Purpose     string `json:"purpose"`
}

type otpGenerateResponse struct {
	OTPRequestID flexString `json:"otp_request_id"`
}

type deviceInfo struct {
	DeviceType string `json:"device_type"`
	AppVersion string `json:"app_version"`
}

type otpValidateRequest struct {
	AreaCode    string     `json:"area_code"`
	PhoneNumber string     `json:"phone_number"`
	UserType    string     `json:"user_type"`
	OTPCode     string     `json:"otp_code"`
	RequestID   string     `json:"request_id"`
	DeviceInfo  deviceInfo `json:"device_info"`
}

type otpValidateResponse struct {
	AccessToken string     `json:"access_token"`
	AuthUserID  flexString `json:"auth_user_id"`
}

// RequestOTP asks the upstream API to send an OTP to phone and returns the OTP request id.
func (c *DefaultGuideAPIClient) RequestOTP(ctx context.Context, phone string) (string, error) {
	const op = "generate_otp"
	var resp otpGenerateResponse
	err := c.postJSON(ctx, op, "/auth/otp/generate", otpGenerateRequest{
		AreaCode:    c.areaCode,
		PhoneNumber: phone,
		UserType:    userTypeGuide,
		Purpose:     purposeLogin,
	}, nil, &resp)
	if err != nil {
		return "", err
	}
	if resp.OTPRequestID == "" {
		return "", fmt.Errorf("%s: %w: otp_request_id missing", op, ErrMalformedResponse)
	}
	return string(resp.OTPRequestID), nil
}

// VerifyOTP validates the OTP request and returns the credentials for later calls.
// The code submitted is always the configured static OTP.
func (c *DefaultGuideAPIClient) VerifyOTP(ctx context.Context, phone, otpRequestID string) (models.Credentials, error) {
	const op = "validate_otp"
	var resp otpValidateResponse
	err := c.postJSON(ctx, op, "/auth/otp/validate", otpValidateRequest{
		AreaCode:    c.areaCode,
		PhoneNumber: phone,
		UserType:    userTypeGuide,
		OTPCode:     c.staticOTP,
		RequestID:   otpRequestID,
		DeviceInfo: deviceInfo{
			DeviceType: c.deviceType,
			AppVersion: c.appVersion,
		},
	}, nil, &resp)
	if err != nil {
		return models.Credentials{}, err
	}
	if resp.AccessToken == "" {
		return models.Credentials{}, fmt.Errorf("%s: %w: access_token missing", op, ErrMalformedResponse)
	}
	return models.Credentials{
		AccessToken: resp.AccessToken,
		AuthUserID:  string(resp.AuthUserID),
	}, nil
}
