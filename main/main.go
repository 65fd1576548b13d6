package main

import (
	"os"
	"time"

	"github.com/dbogatov/fabric-voter/gateway"
	"github.com/dbogatov/fabric-voter/helpers"
	"github.com/dbogatov/fabric-voter/loadgen"
	"github.com/dbogatov/fabric-voter/tally"
	"github.com/hyperledger/fabric-gateway/pkg/hash"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var logger = logging.MustGetLogger("main")

const cryptoPath = "../../test-network/organizations/peerOrganizations/org1.example.com"

func main() {

	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "msp-id",
				Value:   "Org1MSP",
				Usage:   "membership service provider of the client identity",
				EnvVars: []string{"VOTER_MSP_ID"},
			},
			&cli.StringFlag{
				Name:    "cert-dir",
				Value:   cryptoPath + "/users/User1@org1.example.com/msp/signcerts",
				Usage:   "directory holding exactly one enrollment certificate",
				EnvVars: []string{"VOTER_CERT_DIR"},
			},
			&cli.StringFlag{
				Name:    "key-dir",
				Value:   cryptoPath + "/users/User1@org1.example.com/msp/keystore",
				Usage:   "directory holding exactly one private key",
				EnvVars: []string{"VOTER_KEY_DIR"},
			},
			&cli.StringFlag{
				Name:    "tls-cert",
				Value:   cryptoPath + "/peers/peer0.org1.example.com/tls/ca.crt",
				Usage:   "trusted TLS root certificate of the gateway peer",
				EnvVars: []string{"VOTER_TLS_CERT"},
			},
			&cli.StringFlag{
				Name:    "peer-endpoint",
				Value:   "dns:///localhost:7051",
				Usage:   "gateway peer address",
				EnvVars: []string{"VOTER_PEER_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "gateway-peer",
				Value:   "peer0.org1.example.com",
				Usage:   "TLS host name override of the gateway peer",
				EnvVars: []string{"VOTER_GATEWAY_PEER"},
			},
			&cli.StringFlag{
				Name:    "channel",
				Value:   "mychannel",
				Usage:   "ledger channel name",
				EnvVars: []string{"VOTER_CHANNEL"},
			},
			&cli.StringFlag{
				Name:    "chaincode",
				Value:   "basic",
				Usage:   "deployed chaincode name",
				EnvVars: []string{"VOTER_CHAINCODE"},
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: 3,
				Usage: "load mode: number of concurrent in-flight votes",
			},
			&cli.IntFlag{
				Name:  "frequency",
				Value: 0,
				Usage: "load mode: mean seconds between votes, 0 for full speed",
			},
			&cli.StringSliceFlag{
				Name:  "candidates",
				Value: cli.NewStringSlice("alice", "bob", "carol"),
				Usage: "load mode: candidate pool to draw votes from",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Value: false,
				Usage: "verbose output",
			},
		},
		Name:      "voter",
		Usage:     "tallies votes on a Fabric asset ledger",
		ArgsUsage: "[query=<name>] [vote=<name>] [getAllVotes=true] [initialize=true] [loadtest=<votes>]",
		Version:   "v0.0.1",
		Compiled:  time.Now(),

		Action: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"))

			tally.SetLogger(logging.MustGetLogger("tally"))
			loadgen.SetLogger(logging.MustGetLogger("loadgen"))

			commands, err := parseCommands(c.Args().Slice())
			if err != nil {
				return err
			}

			params := helpers.MakeClientParameters(
				logger,
				c.String("msp-id"),
				c.String("cert-dir"),
				c.String("key-dir"),
				c.String("tls-cert"),
				c.String("peer-endpoint"),
				c.String("gateway-peer"),
				c.String("channel"),
				c.String("chaincode"),
				c.Int("concurrency"),
				c.Int("frequency"),
				c.StringSlice("candidates"),
			)

			return run(params, commands)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

// run wires credentials, channel, session and contract together, then
// dispatches every decoded command as its own concurrent task. The
// single channel is shared by all of them and released exactly once,
// whatever the commands' outcomes.
func run(params *helpers.ClientParameters, commands []command) error {

	id, err := gateway.NewIdentity(params.MSPID, params.CertDir)
	if err != nil {
		return err
	}

	sign, err := gateway.NewSigner(params.KeyDir)
	if err != nil {
		return err
	}

	rootCert, err := os.ReadFile(params.TLSCertPath)
	if err != nil {
		return errors.Wrapf(err, "read TLS root certificate %s", params.TLSCertPath)
	}

	channel, err := gateway.NewChannel(rootCert, params.PeerEndpoint, params.GatewayPeer)
	if err != nil {
		return err
	}
	defer channel.Close()

	session, err := gateway.Connect(channel, id, sign, hash.SHA256, gateway.DefaultTimeouts())
	if err != nil {
		return err
	}
	defer session.Close()

	contract := session.Contract(params.Channel, params.Chaincode)
	engine := tally.MakeEngine(contract)

	var group errgroup.Group
	for _, cmd := range commands {
		group.Go(func() error {
			return dispatch(cmd, contract, engine, params)
		})
	}

	return group.Wait()
}

func dispatch(cmd command, contract *gateway.Contract, engine *tally.Engine, params *helpers.ClientParameters) error {

	switch cmd.kind {
	case cmdQuery:
		_, err := engine.Query(cmd.name)
		return err
	case cmdVote:
		result, err := engine.Vote(cmd.name)
		if err != nil {
			return err
		}
		logger.Noticef("%s now holds %s votes (asset %s)", result.Candidate, result.Count, result.AssetID)
		return nil
	case cmdListAll:
		payload, err := engine.ListAll()
		if err != nil {
			return err
		}
		logger.Noticef("all assets:\n%s", helpers.PrettyJSON(payload))
		return nil
	case cmdInitialize:
		return engine.Initialize()
	case cmdLoadTest:
		generator := loadgen.MakeGenerator(contract, params.Candidates, params.Concurrency, params.Frequency)
		return generator.Run(cmd.votes)
	}

	return nil
}

func configureLogging(verbose bool) {
	logging.SetFormatter(
		logging.MustStringFormatter(`%{color}%{time:15:04:05.000} %{shortfunc:22s} ▶ %{level:6s} %{id:03x}%{color:reset} |	 %{message}`),
	)
	levelBackend := logging.AddModuleLevel(logging.NewLogBackend(os.Stdout, "", 0))
	if verbose {
		levelBackend.SetLevel(logging.DEBUG, "")
	} else {
		levelBackend.SetLevel(logging.INFO, "")
	}
	logging.SetBackend(levelBackend)
}
