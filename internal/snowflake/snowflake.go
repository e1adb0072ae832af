package snowflake

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"
)

type Snowflake struct {
	Timestamp int64
	WorkerID  int64
	Increment int64
}

const (
	timestampLength int64 = 42                                    // 42
	timestampPos          = 64 - timestampLength                  // 22
	workerLength    int64 = 10                                    // 10
	workerPos             = timestampPos - workerLength           // 12
	incrementLength       = 64 - (timestampLength + workerLength) // 12
)

var (
	maxWorkerValue    = int64(math.Pow(2, float64(workerLength)) - 1)
	maxIncrementValue = int64(math.Pow(2, float64(incrementLength)) - 1)

	lastIncrement, lastTimestamp int64
	mutex                        sync.Mutex

	workerID    int64 = 0
	hasWorkerID       = false
)

func Setup(id int64) error {
	mutex.Lock()
	defer mutex.Unlock()

	if id < 0 || id > maxWorkerValue {
		return fmt.Errorf("worker ID value must be between 0 and [%d]", maxWorkerValue)
	} else if !hasWorkerID {
		workerID = id
		hasWorkerID = true
		return nil
	}

	return fmt.Errorf("worker ID for snowflake generator has been already set")
}

// Generate returns a new id. When the increment overflows inside one
// millisecond it waits for the next one.
func Generate() int64 {
	mutex.Lock()
	defer mutex.Unlock()

	timestamp := time.Now().UnixMilli()
	if timestamp <= lastTimestamp {
		timestamp = lastTimestamp
		lastIncrement += 1
		if lastIncrement > maxIncrementValue {
			for timestamp <= lastTimestamp {
				time.Sleep(100 * time.Microsecond)
				timestamp = time.Now().UnixMilli()
			}
			lastIncrement = 0
			lastTimestamp = timestamp
		}
	} else {
		lastIncrement = 0
		lastTimestamp = timestamp
	}

	return timestamp<<timestampPos | workerID<<workerPos | lastIncrement
}

// GenerateString is Generate in decimal, the form stored in records.
func GenerateString() string {
	return strconv.FormatInt(Generate(), 10)
}

func Extract(snowflakeId int64) Snowflake {
	return Snowflake{
		Timestamp: snowflakeId >> timestampPos,
		WorkerID:  (snowflakeId >> workerPos) & ((1 << workerLength) - 1),
		Increment: snowflakeId & ((1 << incrementLength) - 1),
	}
}

func ExtractTimestamp(snowflakeId int64) int64 {
	return snowflakeId >> timestampPos
}
