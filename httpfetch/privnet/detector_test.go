package privnet_test

import (
	"testing"

	"github.com/mycok/wander/httpfetch/privnet"
)

func TestDefaultBlocks(t *testing.T) {
	testCases := []struct {
		description string
		host        string
		expected    bool
	}{
		{description: "ipv4 loopback", host: "127.0.0.1", expected: true},
		{description: "ipv6 loopback", host: "::1", expected: true},
		{description: "class A private", host: "10.1.2.3", expected: true},
		{description: "class B private", host: "172.20.0.9", expected: true},
		{description: "class C private", host: "192.168.1.1", expected: true},
		{description: "cloud metadata", host: "169.254.169.254", expected: true},
		{description: "public resolver", host: "8.8.8.8", expected: false},
		{description: "public documentation block", host: "203.0.113.10", expected: false},
	}

	detector, err := privnet.NewDetector()
	if err != nil {
		t.Fatal("detector initialization failed: ", err)
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			isPrivate, err := detector.IsNetworkPrivate(tc.host)
			if err != nil {
				t.Fatal("unexpected error: ", err)
			}

			if isPrivate != tc.expected {
				t.Errorf("expected %s (%s) private=%v, got %v", tc.description, tc.host, tc.expected, isPrivate)
			}
		})
	}
}

func TestCustomBlocks(t *testing.T) {
	detector, err := privnet.NewDetectorFromCIDRs("8.8.0.0/16")
	if err != nil {
		t.Fatal("detector initialization failed: ", err)
	}

	isPrivate, err := detector.IsNetworkPrivate("8.8.4.4")
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}

	if !isPrivate {
		t.Errorf("expected 8.8.4.4 to fall inside the custom block")
	}
}

func TestInvalidCIDR(t *testing.T) {
	if _, err := privnet.NewDetectorFromCIDRs("not-a-cidr"); err == nil {
		t.Error("expected an error for a malformed block")
	}
}
