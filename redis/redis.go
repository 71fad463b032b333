package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"bridgerelay/config"
	"bridgerelay/types"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
)

var pool *redis.Pool

// returned by SetSecretMessage when a blob is already stored; overwriting a
// working key silently is the one mistake this store must not allow
var ErrSecretExists = errors.New("a secret message is already stored")

const (
	secretMessageKey = "relay:secretmessage"
	feeQuoteKey      = "relay:feequote:%s"  // per network name
	relayWriteKey    = "relay:write:%s"     // per record ID
	relayWriteSet    = "relay:writes"
)

func timeoutDialOptions() []redis.DialOption {
	return []redis.DialOption{
		redis.DialConnectTimeout(5 * time.Second),
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}
}

func Init() {
	redisAddr := fmt.Sprintf("%s:%d", config.Config.Server.RedisHost, config.Config.Server.RedisPort)
	pool = &redis.Pool{
		MaxIdle: 5,
		Dial:    func() (redis.Conn, error) { return redis.Dial("tcp", redisAddr, timeoutDialOptions()...) },
	}
}

// GetFeeQuote returns the last observed gas cost of a successful release on
// the network, in WEI. No quote yet reads as zero.
func GetFeeQuote(network string) (*big.Int, error) {
	conn := pool.Get()
	defer conn.Close()

	value, err := redis.String(conn.Do("GET", fmt.Sprintf(feeQuoteKey, network)))
	if errors.Is(err, redis.ErrNil) {
		return big.NewInt(0), nil
	}
	if err != nil {
		log.Printf("error Redis GET: %s", err.Error())
		return nil, err
	}

	fee, ok := big.NewInt(0).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("malformed fee quote record '%s' for %s", value, network)
	}
	return fee, nil
}

func SetFeeQuote(network string, fee *big.Int) error {
	conn := pool.Get()
	defer conn.Close()

	if fee == nil || fee.Sign() < 0 {
		return errors.New("fee quote must be a non-negative amount")
	}

	_, err := conn.Do("SET", fmt.Sprintf(feeQuoteKey, network), fee.String())
	if err != nil {
		log.Printf("error Redis SET: %s", err.Error())
		return err
	}
	return nil
}

// GetSecretMessage returns the stored encrypted key blob, or "" when none
// has been written yet.
func GetSecretMessage() (string, error) {
	conn := pool.Get()
	defer conn.Close()

	message, err := redis.String(conn.Do("GET", secretMessageKey))
	if errors.Is(err, redis.ErrNil) {
		return "", nil
	}
	if err != nil {
		log.Printf("error Redis GET: %s", err.Error())
		return "", err
	}
	return message, nil
}

// SetSecretMessage stores the encrypted key blob, write-once.
func SetSecretMessage(message string) error {
	conn := pool.Get()
	defer conn.Close()

	if message == "" {
		return errors.New("empty secret message")
	}

	written, err := redis.Int(conn.Do("SETNX", secretMessageKey, message))
	if err != nil {
		log.Printf("error Redis SETNX: %s", err.Error())
		return err
	}
	if written == 0 {
		return ErrSecretExists
	}
	return nil
}

func RecordRelayWrite(rec *types.RelayWriteRecord) error {
	conn := pool.Get()
	defer conn.Close()

	if rec == nil {
		return errors.New("null object to store")
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.TsCreated == 0 {
		rec.TsCreated = time.Now().Unix()
	}
	recordKey := fmt.Sprintf(relayWriteKey, rec.ID)

	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cannot marshal relay write record to JSON: %s", err.Error())
	}

	_, err = conn.Do("SET", recordKey, recJSON)
	if err != nil {
		log.Printf("error Redis SET: %s", err.Error())
		return err
	}

	// also add the key to the stats SET
	_, err = conn.Do("SADD", relayWriteSet, recordKey)
	if err != nil {
		log.Printf("error Redis SADD: %s", err.Error())
		return err
	}

	return nil
}

func ListRelayWrites() ([]*types.RelayWriteRecord, error) {
	conn := pool.Get()
	defer conn.Close()

	recs := make([]*types.RelayWriteRecord, 0)

	// scan every record present in Redis
	var cursor int64

	for {
		values, err := redis.Values(conn.Do("SSCAN", relayWriteSet, cursor))
		if err != nil {
			return nil, err
		}

		var recKeys []string
		values, err = redis.Scan(values, &cursor, &recKeys)
		if err != nil {
			return nil, err
		}

		for _, key := range recKeys {
			raw, err := redis.Bytes(conn.Do("GET", key))
			if errors.Is(err, redis.ErrNil) {
				continue
			}
			if err != nil {
				log.Printf("error Redis GET: %s", err.Error())
				return nil, err
			}

			var rec types.RelayWriteRecord
			err = json.Unmarshal(raw, &rec)
			if err != nil {
				return nil, err
			}
			recs = append(recs, &rec)
		}

		if cursor == 0 {
			break
		}
	}

	return recs, nil
}

// Store adapts the package functions to the interfaces the core and the
// handlers consume. Simple wrapper (probably could be omitted).
type Store struct{}

func (Store) GetFeeQuote(network string) (*big.Int, error)      { return GetFeeQuote(network) }
func (Store) SetFeeQuote(network string, fee *big.Int) error    { return SetFeeQuote(network, fee) }
func (Store) GetSecretMessage() (string, error)                 { return GetSecretMessage() }
func (Store) SetSecretMessage(message string) error             { return SetSecretMessage(message) }
func (Store) RecordRelayWrite(r *types.RelayWriteRecord) error  { return RecordRelayWrite(r) }
func (Store) ListRelayWrites() ([]*types.RelayWriteRecord, error) { return ListRelayWrites() }
