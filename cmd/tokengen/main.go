// Command tokengen issues an access token for a participant. The chat front-end uses it to
// call the API on behalf of the account.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/go-petr/pet-economy/pkg/configpkg"
	"github.com/go-petr/pet-economy/pkg/tokenpkg"
)

func main() {
	configDir := flag.String("config", "./configs", "directory holding app.env")
	account := flag.Int64P("account", "a", -1, "account id the token is issued for")
	duration := flag.DurationP("duration", "d", 0, "token lifetime, defaults to ACCESS_TOKEN_DURATION")
	flag.Parse()

	if *account < 0 {
		flag.Usage()
		os.Exit(1)
	}

	config, err := configpkg.Load(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	lifetime := config.AccessTokenDuration
	if *duration > 0 {
		lifetime = *duration
	}

	maker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create token maker")
	}

	token, payload, err := maker.CreateToken(*account, lifetime)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create token")
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "account %d, expires %s\n", payload.AccountID, payload.ExpiredAt.Format(time.RFC3339))
}
