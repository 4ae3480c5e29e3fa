package enums

import "fmt"

// ActivityBucket is the coarse range answer for roles-applied and
// companies-emailed survey questions.
type ActivityBucket string

const (
	ActivityBucketZero       ActivityBucket = "0"
	ActivityBucketOneToFive  ActivityBucket = "1-5"
	ActivityBucketSixToTwen  ActivityBucket = "6-20"
	ActivityBucketTwentyPlus ActivityBucket = "20+"
)

var validActivityBuckets = []ActivityBucket{
	ActivityBucketZero,
	ActivityBucketOneToFive,
	ActivityBucketSixToTwen,
	ActivityBucketTwentyPlus,
}

// String implements fmt.Stringer.
func (b ActivityBucket) String() string {
	return string(b)
}

// IsValid reports whether the value is known.
func (b ActivityBucket) IsValid() bool {
	for _, candidate := range validActivityBuckets {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseActivityBucket converts raw input into an ActivityBucket.
func ParseActivityBucket(value string) (ActivityBucket, error) {
	for _, candidate := range validActivityBuckets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity bucket %q", value)
}

// InterviewBucket is the coarse range answer for the interviews survey
// question. Note the enumeration differs from ActivityBucket.
type InterviewBucket string

const (
	InterviewBucketZero      InterviewBucket = "0"
	InterviewBucketOneToTwo  InterviewBucket = "1-2"
	InterviewBucketThreeFive InterviewBucket = "3-5"
	InterviewBucketFivePlus  InterviewBucket = "5+"
)

var validInterviewBuckets = []InterviewBucket{
	InterviewBucketZero,
	InterviewBucketOneToTwo,
	InterviewBucketThreeFive,
	InterviewBucketFivePlus,
}

// String implements fmt.Stringer.
func (b InterviewBucket) String() string {
	return string(b)
}

// IsValid reports whether the value is known.
func (b InterviewBucket) IsValid() bool {
	for _, candidate := range validInterviewBuckets {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseInterviewBucket converts raw input into an InterviewBucket.
func ParseInterviewBucket(value string) (InterviewBucket, error) {
	for _, candidate := range validInterviewBuckets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid interview bucket %q", value)
}
