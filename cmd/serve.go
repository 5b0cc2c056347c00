package cmd

import (
	"context"
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/aware-network/aware-kernel/internal/environ"
	"github.com/aware-network/aware-kernel/internal/pathspec"
	"github.com/aware-network/aware-kernel/internal/runtime"
)

var (
	serveRoot        string
	servePrivateRoot string
)

var serveCmd = &cobra.Command{
	Use:   "serve [manifest.hcl]",
	Short: "Serve the function-call executor over MCP stdio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, err := environ.Load(args[0])
		if err != nil {
			return err
		}

		env := runtime.NewEnvironment()
		if err := environ.Bind(env, manifest, ".", servePrivateRoot); err != nil {
			return err
		}
		exec := runtime.NewExecutor(env, osfs.New(serveRoot))

		s := server.NewMCPServer("aware-kernel", "0.1.0", server.WithToolCapabilities(false))
		s.AddTool(callFunctionTool(), callFunctionHandler(exec))
		s.AddTool(resolvePathTool(), resolvePathHandler(env))

		return server.ServeStdio(s)
	},
}

func callFunctionTool() mcp.Tool {
	return mcp.NewTool("call_function",
		mcp.WithDescription("Invoke a bound object function; plan results are applied and the receipt and journal are returned"),
		mcp.WithString("object_type", mcp.Required(), mcp.Description("Bound object type")),
		mcp.WithString("function", mcp.Required(), mcp.Description("Function name on the object")),
		mcp.WithObject("selectors", mcp.Description("Selector values for the call")),
		mcp.WithObject("arguments", mcp.Description("Handler arguments")),
	)
}

func callFunctionHandler(exec *runtime.Executor) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		objectType, err := request.RequireString("object_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		function, err := request.RequireString("function")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		raw := request.GetArguments()
		selectors := map[string]string{}
		if sel, ok := raw["selectors"].(map[string]any); ok {
			for k, v := range sel {
				if s, ok := v.(string); ok {
					selectors[k] = s
				}
			}
		}
		arguments, _ := raw["arguments"].(map[string]any)
		if arguments == nil {
			arguments = map[string]any{}
		}
		if _, ok := arguments["selectors"]; !ok {
			arguments["selectors"] = selectors
		}

		result, err := exec.Execute(runtime.Request{
			ObjectType:   objectType,
			FunctionName: function,
			Selectors:    selectors,
			Arguments:    arguments,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(oj.JSON(map[string]any{
			"payload":   result.Payload,
			"receipts":  result.Receipts,
			"journal":   result.Journal,
			"rule_ids":  result.RuleIDs,
			"selectors": result.Selectors,
		}, 2)), nil
	}
}

func resolvePathTool() mcp.Tool {
	return mcp.NewTool("resolve_path",
		mcp.WithDescription("Resolve an object pathspec plus selectors to a concrete path"),
		mcp.WithString("object_type", mcp.Required(), mcp.Description("Bound object type")),
		mcp.WithString("pathspec", mcp.Required(), mcp.Description("Pathspec id declared on the object")),
		mcp.WithObject("selectors", mcp.Description("Selector values")),
	)
}

func resolvePathHandler(env *runtime.Environment) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		objectType, err := request.RequireString("object_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		specID, err := request.RequireString("pathspec")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		obj, ok := env.Object(objectType)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown object type %q", objectType)), nil
		}
		var spec *pathspec.Spec
		for i := range obj.PathSpecs {
			if obj.PathSpecs[i].ID == specID {
				spec = &obj.PathSpecs[i]
				break
			}
		}
		if spec == nil {
			return mcp.NewToolResultError(fmt.Sprintf("object %q has no pathspec %q", objectType, specID)), nil
		}

		selectors := map[string]string{}
		if sel, ok := request.GetArguments()["selectors"].(map[string]any); ok {
			for k, v := range sel {
				if s, ok := v.(string); ok {
					selectors[k] = s
				}
			}
		}

		resolved, err := pathspec.Resolve(*spec, selectors, ".", servePrivateRoot)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(resolved), nil
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveRoot, "root", ".", "document tree root plans apply under")
	serveCmd.Flags().StringVar(&servePrivateRoot, "private-root", "", "alternate root for private pathspecs")
	rootCmd.AddCommand(serveCmd)
}
